package cli

import (
	"io"

	"github.com/rs/zerolog"
)

// deferClose closes closer and logs a failure. Use it in defer statements.
func deferClose(logger zerolog.Logger, closer io.Closer, msg string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Err(err).Msg(msg)
	}
}
