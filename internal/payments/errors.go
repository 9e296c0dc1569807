package payments

import "fmt"

// GatewayError is a machine-readable rejection from the gateway. Code comes
// straight off the wire; Message is the gateway's own text.
type GatewayError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return MessageForCode(e.Code)
}

// Temporary reports whether retrying the same confirmation could succeed.
// Business rejections (declined card, amount below minimum) are final.
func (e *GatewayError) Temporary() bool {
	return e.HTTPStatus >= 500
}

var errorMessages = map[string]string{
	"UNAUTHORIZED_KEY":                 "the API key is not authorized",
	"FORBIDDEN_REQUEST":                "API key and order do not match",
	"NOT_FOUND_PAYMENT":                "payment not found",
	"NOT_FOUND_PAYMENT_SESSION":        "payment session expired, start the payment again",
	"ALREADY_PROCESSED_PAYMENT":        "payment was already processed",
	"PROVIDER_ERROR":                   "payment provider error",
	"EXCEED_MAX_CARD_INSTALLMENT_PLAN": "card installment plan exceeds the maximum",
	"INVALID_REJECT_CARD":              "the card was declined",
	"BELOW_MINIMUM_AMOUNT":             "amount is below the minimum payable",
	"INVALID_CARD_EXPIRATION":          "invalid card expiration date",
	"INVALID_STOPPED_CARD":             "the card is suspended",
	"NOT_CANCELABLE_PAYMENT":           "this payment cannot be cancelled",
	"FAILED_INTERNAL_SYSTEM_PROCESSING": "internal gateway processing failed",
}

// MessageForCode maps a gateway error code to a human-readable message,
// falling back to the raw code for anything unmapped.
func MessageForCode(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("payment failed (%s)", code)
}
