package dto

// InboundMessage is a text message extracted from a vendor webhook.
type InboundMessage struct {
	Sender string
	Body   string
	Vendor string
}

// Valid reports whether both sender and body are present.
func (m InboundMessage) Valid() bool {
	return m.Sender != "" && m.Body != ""
}

// WebhookReply is the JSON body returned for a handled message.
type WebhookReply struct {
	Reply string `json:"reply"`
}

// WebhookStatus is the JSON body returned when a payload is not handled.
type WebhookStatus struct {
	Status string `json:"status"`
}
