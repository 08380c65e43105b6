// Package tokens estimates prompt and completion sizes when the upstream
// response carries no usage block.
package tokens

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const fallbackEncoding = "cl100k_base"

var offlineLoader sync.Once

// useOfflineBPE serves BPE ranks from the files embedded in the loader module
// instead of downloading them.
func useOfflineBPE() {
	offlineLoader.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// Estimator counts tokens with a BPE encoding, or approximates from words
// when no encoding could be loaded.
type Estimator struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewEstimator loads the encoding for model. Loading failures are logged and
// degrade to the word based approximation.
func NewEstimator(model string, logger *slog.Logger) *Estimator {
	useOfflineBPE()
	enc, err := tiktoken.EncodingForModel(strings.TrimSpace(model))
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		if logger != nil {
			logger.Warn("token encoding unavailable, using word approximation", "model", model, "error", err)
		}
		return &Estimator{}
	}
	return &Estimator{enc: enc}
}

// NewApproximate returns an estimator that never loads an encoding.
func NewApproximate() *Estimator {
	return &Estimator{}
}

// Count returns the estimated number of tokens in text.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	if e == nil || e.enc == nil {
		return approximate(text)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.enc.Encode(text, nil, nil))
}

// approximate uses the common 3 words ~ 4 tokens ratio.
func approximate(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return (words*4 + 2) / 3
}
