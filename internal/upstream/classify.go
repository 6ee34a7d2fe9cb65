package upstream

import (
	"context"
	"errors"
	"net"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/kbukum/compapol/errors"
	"github.com/kbukum/compapol/httpclient"
	"github.com/kbukum/compapol/util"
)

// MsgMissingKey is returned by every endpoint when no Groq credential is
// configured.
const MsgMissingKey = "Falta GROQ_API_KEY en el servidor"

// Messages are the caller-facing fallbacks for one operation.
type Messages struct {
	// Upstream is used when the provider replied with an error status but
	// no message of its own.
	Upstream string
	// Unexpected is used for transport faults, timeouts and bad replies.
	Unexpected string
}

// Classify maps a provider error onto the service taxonomy:
//
//   - an *AppError anywhere in the chain passes through;
//   - a provider reply with an error status becomes Upstream with that
//     status and the provider's message, or msg.Upstream when it has none;
//   - a deadline becomes Timeout;
//   - everything else becomes Unexpected.
//
// Timeout and Unexpected carry msg.Unexpected; the cause is kept for logs.
func Classify(operation string, err error, msg Messages) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	var httpErr *httpclient.Error
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode > 0 {
			return apperrors.Upstream(httpErr.StatusCode, util.Coalesce(httpErr.ProviderMessage(), msg.Upstream)).WithCause(err)
		}
		if httpclient.IsTimeout(httpErr) {
			return apperrors.Timeout(operation, msg.Unexpected).WithCause(err)
		}
		return apperrors.Unexpected(err, msg.Unexpected)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apperrors.Upstream(apiErr.HTTPStatusCode, util.Coalesce(apiErr.Message, msg.Upstream)).WithCause(err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return apperrors.Upstream(reqErr.HTTPStatusCode, msg.Upstream).WithCause(err)
	}

	if isTimeout(err) {
		return apperrors.Timeout(operation, msg.Unexpected).WithCause(err)
	}
	return apperrors.Unexpected(err, msg.Unexpected)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
