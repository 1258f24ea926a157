package model

// FileUpload is a file attached to a multipart create or update call.
type FileUpload struct {
	Filename string
	Data     []byte
}

// Empty reports whether there is nothing to send.
func (f *FileUpload) Empty() bool {
	return f == nil || len(f.Data) == 0
}
