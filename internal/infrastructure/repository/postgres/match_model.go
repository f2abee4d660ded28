package postgres

import "time"

type matchTableModel struct {
	ID        string    `db:"id"`
	State     string    `db:"state"`
	Practice  bool      `db:"practice"`
	Revision  int64     `db:"revision"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// data is sent as text so lib/pq does not encode it as bytea.
type matchInsertModel struct {
	ID        string    `db:"id"`
	State     string    `db:"state"`
	Practice  bool      `db:"practice"`
	Revision  int64     `db:"revision"`
	Data      string    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
