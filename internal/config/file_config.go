package config

const DefaultMaxUploadSize int64 = 5 * 1024 * 1024 // 5MB

var DefaultResumeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var DefaultImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// FileKind - вид загружаемого файла, определяет правила и каталог хранения
type FileKind string

const (
	FileKindResume         FileKind = "resume"
	FileKindProfilePicture FileKind = "profile_picture"
	FileKindCompanyLogo    FileKind = "company_logo"
)

// FileRule описывает ограничения для одного вида файлов
type FileRule struct {
	Dir          string
	MaxSize      int64
	AllowedTypes []string
	Dated        bool // раскладывать по подкаталогам YYYY/MM/DD
	IsImage      bool // уменьшать до ImageMaxWidth x ImageMaxHeight
}

// FileRules собирает правила загрузки из секции upload
func (c *Config) FileRules() map[FileKind]FileRule {
	return map[FileKind]FileRule{
		FileKindResume: {
			Dir:          "resumes",
			MaxSize:      c.Upload.MaxSize,
			AllowedTypes: c.Upload.ResumeTypes,
			Dated:        true,
		},
		FileKindProfilePicture: {
			Dir:          "profile_pictures",
			MaxSize:      c.Upload.MaxSize,
			AllowedTypes: c.Upload.ImageTypes,
			IsImage:      true,
		},
		FileKindCompanyLogo: {
			Dir:          "company_logos",
			MaxSize:      c.Upload.MaxSize,
			AllowedTypes: c.Upload.ImageTypes,
			IsImage:      true,
		},
	}
}
