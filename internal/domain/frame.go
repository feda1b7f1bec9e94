package domain

// Протокол обмена со встраивающей страницей.
// Фреймы только объявляют свои возможности (FrameHello),
// а рантайм отвечает командами (FrameCommand), которые страница исполняет сама.

// FrameTarget - документ, в котором исполняется команда.
type FrameTarget string

const (
	FrameSelf   FrameTarget = "self"
	FrameParent FrameTarget = "parent"
	FrameTop    FrameTarget = "top"
)

// FrameOrder - порядок обхода документов при поиске уведомлений.
var FrameOrder = []FrameTarget{FrameSelf, FrameParent, FrameTop}

// FrameCapabilities - что умеет документ.
// CrossOrigin означает, что доступ к документу запрещён политикой origin.
type FrameCapabilities struct {
	Branded     bool `json:"branded"`
	Simple      bool `json:"simple"`
	CrossOrigin bool `json:"crossOrigin"`
}

// FrameHello - сообщение страницы о своих возможностях и имеющихся DOM-якорях.
type FrameHello struct {
	SessionID string                            `json:"sessionId"`
	Frames    map[FrameTarget]FrameCapabilities `json:"frames"`
	Anchors   []string                          `json:"anchors"`
}

// SinkKind - вид приёмника уведомлений.
type SinkKind string

const (
	SinkBranded SinkKind = "branded"
	SinkSimple  SinkKind = "simple"
	SinkAlert   SinkKind = "alert"
)

// ToastLevel - уровень уведомления.
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastInfo    ToastLevel = "info"
	ToastWarning ToastLevel = "warning"
	ToastError   ToastLevel = "error"
)

// Toast - одно уведомление.
type Toast struct {
	Level      ToastLevel `json:"level"`
	Title      string     `json:"title,omitempty"`
	Message    string     `json:"message"`
	DurationMs int        `json:"durationMs,omitempty"`
}

// CommandKind - тип команды для страницы.
type CommandKind string

const (
	CommandToast         CommandKind = "toast"
	CommandAlert         CommandKind = "alert"
	CommandRedirect      CommandKind = "redirect"
	CommandCheckoutClose CommandKind = "checkout.close"
	CommandCheckoutBusy  CommandKind = "checkout.busy"
	CommandCheckoutError CommandKind = "checkout.error"
	CommandAddressMode   CommandKind = "checkout.address_mode"
)

// FrameCommand - команда, которую страница забирает из очереди и исполняет.
type FrameCommand struct {
	Kind   CommandKind `json:"kind"`
	Target FrameTarget `json:"target,omitempty"`
	Sink   SinkKind    `json:"sink,omitempty"`
	Toast  *Toast      `json:"toast,omitempty"`
	URL    string      `json:"url,omitempty"`
	Busy   bool        `json:"busy,omitempty"`
	Text   string      `json:"text,omitempty"`
	Mode   AddressMode `json:"mode,omitempty"`
}
