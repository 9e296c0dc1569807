package payments

// Payment gateway v1 API types. Only the fields the storefront reads are
// modeled; the gateway sends many more.

type Status string

const (
	StatusReady             Status = "READY"
	StatusInProgress        Status = "IN_PROGRESS"
	StatusWaitingForDeposit Status = "WAITING_FOR_DEPOSIT"
	StatusDone              Status = "DONE"
	StatusCanceled          Status = "CANCELED"
	StatusPartialCanceled   Status = "PARTIAL_CANCELED"
	StatusAborted           Status = "ABORTED"
	StatusExpired           Status = "EXPIRED"
)

// ConfirmRequest is the JSON body of the confirmation call. Field names are
// fixed by the gateway's wire format.
type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type Payment struct {
	PaymentKey  string  `json:"paymentKey"`
	OrderID     string  `json:"orderId"`
	OrderName   string  `json:"orderName"`
	Status      Status  `json:"status"`
	TotalAmount int64   `json:"totalAmount"`
	Method      string  `json:"method"`
	RequestedAt string  `json:"requestedAt"`
	ApprovedAt  string  `json:"approvedAt"`
	Receipt     Receipt `json:"receipt"`
}

type Receipt struct {
	URL string `json:"url"`
}
