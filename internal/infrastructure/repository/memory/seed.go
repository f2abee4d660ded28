package memory

import (
	"github.com/riskibarqy/football-manager/internal/domain/manager"
	"github.com/riskibarqy/football-manager/internal/domain/player"
)

const (
	ManagerIDRiver  = "mgr-river"
	ManagerIDHarbor = "mgr-harbor"
	ManagerIDForge  = "mgr-forge"
)

type seedPlayer struct {
	suffix   string
	name     string
	position player.Position
	overall  int
	age      int
}

func SeedManagers() []manager.Profile {
	return []manager.Profile{
		seedManager(ManagerIDRiver, "River Athletic", 12_000_000, 2, []seedPlayer{
			{"gk1", "Tomas Lind", player.PositionGK, 78, 29},
			{"lb1", "Ade Okafor", player.PositionLB, 74, 24},
			{"cb1", "Marco Bellini", player.PositionCB, 79, 27},
			{"cb2", "Jonas Weber", player.PositionCB, 76, 25},
			{"rb1", "Luis Carvalho", player.PositionRB, 73, 22},
			{"cdm1", "Sami Haddad", player.PositionCDM, 77, 28},
			{"cm1", "Owen Price", player.PositionCM, 75, 23},
			{"cam1", "Rafael Duarte", player.PositionCAM, 80, 26},
			{"lw1", "Kenji Mori", player.PositionLW, 78, 24},
			{"st1", "Viktor Novak", player.PositionST, 82, 27},
			{"rw1", "Callum Reid", player.PositionRW, 76, 21},
			{"gk2", "Piet Jansen", player.PositionGK, 68, 33},
			{"cb3", "Eli Morgan", player.PositionCB, 70, 20},
			{"cm2", "Dario Russo", player.PositionCM, 71, 30},
			{"st2", "Bruno Alves", player.PositionST, 72, 19},
		}),
		seedManager(ManagerIDHarbor, "Harbor United", 9_500_000, 1, []seedPlayer{
			{"gk1", "Arne Solberg", player.PositionGK, 75, 31},
			{"lwb1", "Milan Petrovic", player.PositionLWB, 72, 26},
			{"cb1", "Yusuf Demir", player.PositionCB, 76, 28},
			{"cb2", "Sean Gallagher", player.PositionCB, 74, 29},
			{"cb3", "Hugo Lambert", player.PositionCB, 73, 24},
			{"rwb1", "Nico Ferreira", player.PositionRWB, 72, 23},
			{"cm1", "Felix Braun", player.PositionCM, 77, 27},
			{"cm2", "Iker Salas", player.PositionCM, 74, 25},
			{"cam1", "Lucas Moreau", player.PositionCAM, 78, 22},
			{"cf1", "Andre Costa", player.PositionCF, 76, 30},
			{"st1", "Mateo Rossi", player.PositionST, 79, 26},
			{"gk2", "Oskar Berg", player.PositionGK, 66, 20},
			{"lm1", "Theo Blanc", player.PositionLM, 69, 21},
			{"rm1", "Jack Turner", player.PositionRM, 70, 24},
			{"st2", "Emil Strand", player.PositionST, 68, 18},
		}),
		seedManager(ManagerIDForge, "Forge Rovers", 4_000_000, 0, []seedPlayer{
			{"gk1", "Dan Kowalski", player.PositionGK, 66, 30},
			{"lb1", "Ryan Walsh", player.PositionLB, 64, 27},
			{"cb1", "Paulo Mendes", player.PositionCB, 67, 29},
			{"cb2", "Gary Holt", player.PositionCB, 65, 31},
			{"rb1", "Chris Ward", player.PositionRB, 63, 24},
			{"lm1", "Tariq Aziz", player.PositionLM, 66, 22},
			{"cm1", "Ben Doyle", player.PositionCM, 68, 26},
			{"cm2", "Ivan Horvat", player.PositionCM, 65, 28},
			{"rm1", "Kofi Mensah", player.PositionRM, 67, 23},
			{"st1", "Liam Byrne", player.PositionST, 70, 25},
			{"st2", "Omar Said", player.PositionST, 68, 21},
			{"gk2", "Nate Ellis", player.PositionGK, 58, 19},
			{"cb3", "Rui Pinto", player.PositionCB, 60, 20},
			{"cdm1", "Sven Olsen", player.PositionCDM, 62, 33},
			{"rw1", "Jay Cole", player.PositionRW, 61, 18},
		}),
	}
}

func seedManager(id, name string, budget int64, stadium int, players []seedPlayer) manager.Profile {
	roster := make([]manager.RosterPlayer, 0, len(players))
	for _, p := range players {
		roster = append(roster, manager.RosterPlayer{
			Player: player.Player{
				ID:       id + "-" + p.suffix,
				Name:     p.name,
				Position: p.position,
				Overall:  p.overall,
				Age:      p.age,
			},
		})
	}
	return manager.Profile{
		ID:             id,
		Name:           name,
		Roster:         roster,
		Budget:         budget,
		Facilities:     manager.Facilities{Stadium: stadium},
		LeaguePlayedOn: map[string]string{},
	}
}
