package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/manager --output domain/manager --outpkg managermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Notifier --dir ../domain/notification --output domain/notification --outpkg notificationmock --filename notifier_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Sink --dir ../domain/notification --output domain/notification --outpkg notificationmock --filename sink_mock.go
