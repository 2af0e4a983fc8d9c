package connect

// Device is a point-in-time snapshot of a registered water heater as returned
// by the devices endpoint. Snapshots are never updated in place; re-fetch the
// device list for current state. The DSN is the key used in every per-device
// URL.
type Device struct {
	ProductName        string     `json:"product_name"`
	Model              string     `json:"model"`
	DSN                string     `json:"dsn"`
	OEMModel           string     `json:"oem_model"`
	SWVersion          string     `json:"sw_version"`
	TemplateID         int        `json:"template_id"`
	MAC                string     `json:"mac"`
	UniqueHardwareID   *string    `json:"unique_hardware_id"`
	LanIP              string     `json:"lan_ip"`
	ConnectedAt        string     `json:"connected_at"`
	Key                int        `json:"key"`
	LanEnabled         bool       `json:"lan_enabled"`
	ConnectionPriority []string   `json:"connection_priority"`
	HasProperties      bool       `json:"has_properties"`
	ProductClass       *string    `json:"product_class"`
	ConnectionStatus   string     `json:"connection_status"`
	Lat                string     `json:"lat"`
	Lng                string     `json:"lng"`
	Locality           *string    `json:"locality"`
	DeviceType         string     `json:"device_type"`
	Dealer             *string    `json:"dealer"`
	Properties         []Property `json:"properties,omitempty"`
}

// Property is a snapshot of one named attribute of a device. Value is a
// string, a number, or nil depending on the property's base_type.
type Property struct {
	Type             string      `json:"type"`
	Name             string      `json:"name"`
	BaseType         string      `json:"base_type"`
	ReadOnly         bool        `json:"read_only"`
	Direction        string      `json:"direction"`
	Scope            string      `json:"scope"`
	DataUpdatedAt    string      `json:"data_updated_at"`
	Key              int         `json:"key"`
	DeviceKey        int         `json:"device_key"`
	ProductName      string      `json:"product_name"`
	TrackOnlyChanges bool        `json:"track_only_changes"`
	DisplayName      string      `json:"display_name"`
	HostSWVersion    bool        `json:"host_sw_version"`
	TimeSeries       bool        `json:"time_series"`
	Derived          bool        `json:"derived"`
	AppType          *string     `json:"app_type"`
	Recipe           *string     `json:"recipe"`
	Value            interface{} `json:"value"`
	GeneratedFrom    *string     `json:"generated_from"`
	GeneratedAt      *int64      `json:"generated_at"`
	DeniedRoles      []string    `json:"denied_roles"`
	AckEnabled       bool        `json:"ack_enabled"`
	RetentionDays    *int        `json:"retention_days"`
	AckStatus        *string     `json:"ack_status"`
	AckMessage       *string     `json:"ack_message"`
	AckedAt          *string     `json:"acked_at"`
}

// PropertyWrapper mirrors the server's per-property envelope shape.
type PropertyWrapper struct {
	Property Property `json:"property"`
}

type deviceWrapper struct {
	Device Device `json:"device"`
}

type datapointValue struct {
	Value string `json:"value"`
}

type datapointWrapper struct {
	Datapoint datapointValue `json:"datapoint"`
}

type datapointsPage struct {
	Datapoints  []datapointWrapper `json:"datapoints"`
	NextPageURL string             `json:"next_page_url"`
}

type signInResult struct {
	AccessToken string `json:"access_token"`
}
