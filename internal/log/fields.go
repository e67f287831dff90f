package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldUserID    = "user_id"
	FieldAction    = "action"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldItem      = "item"
	FieldCategory  = "category"
	FieldAmount    = "amount_cents"
	FieldEntryIdx  = "entry_index"
	FieldDuration  = "duration_ms"
	FieldStatus    = "status_code"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentBot        = "bot"
	ComponentDispatcher = "dispatcher"
	ComponentClassifier = "classifier"
	ComponentHTTP       = "http"
	ComponentStorage    = "storage"
	ComponentSheets     = "sheets"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentBackend    = "backend"
	ComponentSender     = "sender"
)

// Operations defines standard operation names
const (
	OpAppend   = "append"
	OpList     = "list"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpClassify = "classify"
	OpRepair   = "repair"
	OpValidate = "validate"
	OpMirror   = "mirror"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
