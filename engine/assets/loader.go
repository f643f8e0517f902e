package assets

// Loader converts the raw bytes of one asset file into its usable form.
type Loader interface {
	Load(name string, data []byte) (string, error)
}
