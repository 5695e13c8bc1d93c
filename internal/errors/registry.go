package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (LD100-LD199)
	// ============================================

	"LD101": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Detail:     "No livedom.json was found in the current directory or any parent directory.",
		Suggestion: "Run the server from a project directory, or pass --config with an explicit path.",
		DocURL:     "https://livedom.dev/docs/errors/LD101",
	},
	"LD102": {
		Category:   CategoryConfig,
		Message:    "Config file is not valid JSON",
		Detail:     "livedom.json exists but could not be parsed.",
		Suggestion: "Check for trailing commas or unquoted keys; livedom.json is strict JSON.",
		DocURL:     "https://livedom.dev/docs/errors/LD102",
	},
	"LD103": {
		Category:   CategoryConfig,
		Message:    "Invalid server address",
		Detail:     "The server.address value is not a valid host:port.",
		DocURL:     "https://livedom.dev/docs/errors/LD103",
	},
	"LD104": {
		Category:   CategoryConfig,
		Message:    "Unknown snapshot backend",
		Detail:     "snapshot.backend must be \"memory\" or \"redis\".",
		DocURL:     "https://livedom.dev/docs/errors/LD104",
	},
	"LD105": {
		Category:   CategoryConfig,
		Message:    "Redis address required",
		Detail:     "snapshot.backend is \"redis\" but snapshot.redis_addr is empty.",
		Suggestion: "Set snapshot.redis_addr to your Redis host:port, e.g. \"localhost:6379\".",
		DocURL:     "https://livedom.dev/docs/errors/LD105",
	},
	"LD106": {
		Category:   CategoryConfig,
		Message:    "Unknown record backend",
		Detail:     "record.backend must be \"none\", \"disk\" or \"s3\".",
		DocURL:     "https://livedom.dev/docs/errors/LD106",
	},
	"LD107": {
		Category:   CategoryConfig,
		Message:    "Record backend missing target",
		Detail:     "record.backend is \"disk\" without record.dir, or \"s3\" without record.bucket.",
		DocURL:     "https://livedom.dev/docs/errors/LD107",
	},

	// ============================================
	// Protocol Errors (LD200-LD299)
	// ============================================

	"LD201": {
		Category: CategoryProtocol,
		Message:  "Malformed frame received",
		Detail:   "A producer sent a frame that could not be decoded.",
		DocURL:   "https://livedom.dev/docs/errors/LD201",
	},
	"LD202": {
		Category:   CategoryProtocol,
		Message:    "Frame exceeds payload limit",
		Detail:     "A frame payload was larger than the 64KB protocol limit.",
		Suggestion: "Send large documents as patch batches instead of full replacements.",
		DocURL:     "https://livedom.dev/docs/errors/LD202",
	},
	"LD203": {
		Category:   CategoryProtocol,
		Message:    "Patch did not apply",
		Detail:     "A patch addressed a path or child index that does not exist in the display's current document.",
		Suggestion: "The producer and sink documents have diverged; send a Replace frame to resynchronize.",
		DocURL:     "https://livedom.dev/docs/errors/LD203",
	},
	"LD204": {
		Category: CategoryProtocol,
		Message:  "Unknown display id",
		Detail:   "A Replace or Patches frame referenced a display that was never created on this connection.",
		DocURL:   "https://livedom.dev/docs/errors/LD204",
	},

	// ============================================
	// Runtime / CLI Errors (LD300-LD399)
	// ============================================

	"LD301": {
		Category: CategoryRuntime,
		Message:  "Snapshot store unavailable",
		Detail:   "The configured snapshot backend could not be reached.",
		DocURL:   "https://livedom.dev/docs/errors/LD301",
	},
	"LD302": {
		Category: CategoryRuntime,
		Message:  "Recorder write failed",
		Detail:   "The frame recorder could not persist a segment.",
		DocURL:   "https://livedom.dev/docs/errors/LD302",
	},
	"LD303": {
		Category:   CategoryCLI,
		Message:    "Sink server unreachable",
		Detail:     "Could not connect to the sink server's websocket ingest endpoint.",
		Suggestion: "Start a sink with `livedom serve`, or pass --sink with the correct URL.",
		DocURL:     "https://livedom.dev/docs/errors/LD303",
	},
}

// Register adds a custom error template. Intended for tests and
// embedding applications; registered codes cannot be overwritten.
func Register(code string, template ErrorTemplate) bool {
	if _, exists := registry[code]; exists {
		return false
	}
	registry[code] = template
	return true
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
