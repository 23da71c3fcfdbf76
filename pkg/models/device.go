package models

// ScreenGeometry is the device's current display size in pixels. The device
// reports it per request because rotation changes it at runtime.
type ScreenGeometry struct {
	Width  int
	Height int
}

// DeviceStatus represents the /api/status report from the device
type DeviceStatus struct {
	Mode          string `json:"mode"`
	HeapFree      int    `json:"heap_free"`
	HeapMin       int    `json:"heap_min"`
	SpiramFree    int    `json:"spiram_free"`
	WifiRSSI      int    `json:"wifi_rssi"`
	ScreenWidth   int    `json:"screen_width"`
	ScreenHeight  int    `json:"screen_height"`
	Rotation      int    `json:"rotation"`
	Retain        bool   `json:"retain"`
	MQTTConnected bool   `json:"mqtt_connected,omitempty"`
	MQTTTopic     string `json:"mqtt_topic,omitempty"`
	MQTTBroker    string `json:"mqtt_broker,omitempty"`
}

// Geometry returns the reported screen size.
func (s *DeviceStatus) Geometry() ScreenGeometry {
	return ScreenGeometry{Width: s.ScreenWidth, Height: s.ScreenHeight}
}

// TextPayload represents a /api/text request body
type TextPayload struct {
	Text  string `json:"text"`
	Size  int    `json:"size"`
	Clear bool   `json:"clear"`
}

// MQTTConfig represents a /api/mqtt request body. Credentials are omitted
// from the wire entirely when empty, never sent as empty strings.
type MQTTConfig struct {
	Broker   string `json:"broker"`
	Topic    string `json:"topic"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// MQTTResult represents the device's /api/mqtt response
type MQTTResult struct {
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
	Topic     string `json:"topic"`
}
