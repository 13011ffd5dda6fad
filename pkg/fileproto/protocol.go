// Package fileproto описывает HTTP-протокол взаимодействия с сервисом файлов.
package fileproto

// Параметры REST-протокола сервиса файлов.
const (
	FilesPathFormat   = "%s/files"
	ContentPathFormat = "%s/files/%s"
	MetaPathFormat    = "%s/files/%s/meta"
	UploadPathFormat  = "%s/files/%s/upload"

	QueryOffset   = "offset"
	QueryFinalize = "finalize"

	HeaderRange        = "Range"
	HeaderContentRange = "Content-Range"
)
