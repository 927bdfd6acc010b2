package domain

// Attachment is a file staged for the next send of a session.
type Attachment struct {
	Data        []byte
	ContentType string
	FileName    string
}

func (a Attachment) Size() int {
	return len(a.Data)
}
