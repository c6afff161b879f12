package domain

// Receipt is either an ExternalReceipt or a StoredReceipt. A nil Receipt means none was attached.
type Receipt interface {
	receiptKind() string
}

const (
	ReceiptKindURL  = "url"
	ReceiptKindFile = "file"
)

// ExternalReceipt points at a receipt hosted elsewhere.
type ExternalReceipt struct {
	URL string `json:"url"`
}

func (ExternalReceipt) receiptKind() string { return ReceiptKindURL }

// StoredReceipt is a receipt uploaded and kept in the database.
// Data is only populated when the blob is explicitly fetched.
type StoredReceipt struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`
}

func (StoredReceipt) receiptKind() string { return ReceiptKindFile }

// ReceiptKind returns "url", "file" or "" for no receipt.
func ReceiptKind(r Receipt) string {
	if r == nil {
		return ""
	}
	return r.receiptKind()
}
