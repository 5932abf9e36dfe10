package models

// UploadedFile описывает файл, сохранённый в каталог загрузок до вызова обработчика.
type UploadedFile struct {
	Field        string `json:"field"`
	OriginalName string `json:"originalName"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
}
