package dto

// UploadResponse - результат загрузки файла в хранилище
type UploadResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
