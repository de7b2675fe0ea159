package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/scoreboard --output domain/scoreboard --outpkg scoreboardmock --filename store_mock.go
