package assets

// Names of the files making up an assets directory.
const (
	ConfigTemplate = "config.tex"
	MainTemplate   = "main.tex"
	LuaFilter      = "final_filter.lua"
)

// Loader defines the contract for loading template files by name.
type Loader interface {
	// Load returns the content of the named file.
	// Returns ErrTemplateNotFound if the file doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	Load(name string) (string, error)
}
