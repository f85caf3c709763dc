package models

// AdminVerifyMode selects where the signed admin message is read from.
type AdminVerifyMode string

const (
	// AdminVerifyPOST reads message and signature from the JSON body.
	AdminVerifyPOST AdminVerifyMode = "POST"
	// AdminVerifyGET reads them from URL-encoded query parameters.
	AdminVerifyGET AdminVerifyMode = "GET"
)

// Action tags an admin message must carry. A signature is only valid for the
// operation named in its message.
const (
	AdminActionArchivePreview      = "archive.preview"
	AdminActionArchiveCreate       = "archive.create"
	AdminActionArchiveClearCurrent = "archive.clear-current"
	AdminActionArchiveUpdate       = "archive.update"
	AdminActionArchiveDelete       = "archive.delete"
)

// AdminMessage is the freshness-stamped payload signed by the admin wallet.
// Fields beyond timestamp, action and wallet are kept in Extra.
type AdminMessage struct {
	Timestamp int64                  `json:"timestamp"`
	Action    string                 `json:"action"`
	Wallet    string                 `json:"wallet"`
	Extra     map[string]interface{} `json:"-"`
}

// AdminIdentity is the outcome of a successful admin verification.
type AdminIdentity struct {
	Address  string
	Message  *AdminMessage
	Bypassed bool
}
