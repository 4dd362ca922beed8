package httpapi

// maxBodyBytes bounds JSON request bodies for /infer. Default 8MiB to
// accommodate tensor payloads larger than typical text requests.
var maxBodyBytes int64 = 8 << 20

// SetMaxBodyBytes overrides the maximum request body size. Non-positive
// values reset to the default.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 8 << 20
		return
	}
	maxBodyBytes = n
}

// CORSOptions configures the go-chi/cors middleware mounted by NewMux.
type CORSOptions struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}
