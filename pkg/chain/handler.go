package chain

import (
	"github.com/OFFIS-RIT/cubeql/pkg/logger"
)

// Handler receives lifecycle events of chain invocations.
type Handler interface {
	OnChainStart(name string, inputs map[string]string)
	OnText(name string, text string)
	OnChainEnd(name string, output string)
	OnChainError(name string, err error)
}

// NopHandler ignores all events.
type NopHandler struct{}

func (NopHandler) OnChainStart(string, map[string]string) {}
func (NopHandler) OnText(string, string)                  {}
func (NopHandler) OnChainEnd(string, string)              {}
func (NopHandler) OnChainError(string, error)             {}

// LogHandler writes chain events to a logger. Inputs are logged by size only,
// the catalog dump is too large to be useful in a log line.
type LogHandler struct {
	Log logger.LoggerInstance
}

// NewLogHandler returns a Handler logging to log.
func NewLogHandler(log logger.LoggerInstance) *LogHandler {
	return &LogHandler{Log: log}
}

func (h *LogHandler) OnChainStart(name string, inputs map[string]string) {
	sizes := make([]any, 0, len(inputs)*2)
	for k, v := range inputs {
		sizes = append(sizes, k, len(v))
	}
	h.Log.Info("Entering chain", append([]any{"chain", name}, sizes...)...)
}

func (h *LogHandler) OnText(name string, text string) {
	h.Log.Debug("Chain response", "chain", name, "text", text)
}

func (h *LogHandler) OnChainEnd(name string, output string) {
	h.Log.Info("Finished chain", "chain", name, "chars", len(output))
}

func (h *LogHandler) OnChainError(name string, err error) {
	h.Log.Error("Chain failed", "chain", name, "err", err)
}
