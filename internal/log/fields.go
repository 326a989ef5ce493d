package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldCardID        = "card_id"
	FieldCardName      = "card_name"
	FieldCardType      = "card_type"
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldAmount        = "amount"
	FieldBalance       = "balance"
	FieldPhotoBytes    = "photo_bytes"
	FieldDBPath        = "db_path"
	FieldBackend       = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentPhoto   = "photo"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpBalance  = "balance"
	OpResize   = "resize"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
