package discord

// MessageEventDTO is the payload the chat-platform relay posts for each
// message: the text body plus any embeds and attachments.
type MessageEventDTO struct {
	Author      string          `json:"author"`
	Content     string          `json:"content"`
	Embeds      []EmbedDTO      `json:"embeds"`
	Attachments []AttachmentDTO `json:"attachments"`
}

type EmbedDTO struct {
	Description string          `json:"description"`
	Fields      []EmbedFieldDTO `json:"fields"`
}

type EmbedFieldDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type AttachmentDTO struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}
