package ports

// Logger is the application-wide logging port. Error takes the error itself
// so adapters can render the full cause chain.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
