package mocks

// Mock generation directives. Regenerate with `go generate ./internal/mocks/`.

//go:generate go run go.uber.org/mock/mockgen -source=../core/cache.go -destination=mock_cache.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/metrics.go -destination=mock_metrics.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/identity.go -destination=mock_identity.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/token.go -destination=mock_token.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/attendance.go -destination=mock_attendance.go -package=mocks
