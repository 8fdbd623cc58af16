package styles

// Toast icons (Nerd Font glyphs).
var (
	IconNotifySuccess = "" // 
	IconNotifyError   = "" // 
	IconNotifyWarning = "" // 
	IconNotifyInfo    = "" // 
)

var (
	IconLanguage = "" // 
	IconPending  = "" // 
)

// Direction arrows point the way text flows.
const (
	IconDirectionLTR = "→"
	IconDirectionRTL = "←"
)
