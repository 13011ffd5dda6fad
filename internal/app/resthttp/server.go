package resthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzhttp"
	"github.com/sir_venger/upload_lite/internal/config"
	meta "github.com/sir_venger/upload_lite/internal/repo"
	"github.com/sir_venger/upload_lite/internal/usecase/filesvc"
	"github.com/sir_venger/upload_lite/internal/usecase/filesvc/adapters/classify"
)

type Server struct {
	FilesService *filesvc.Files
	Cfg          *config.Config
}

// NewServer конструктор
func NewServer(cfg *config.Config) (http.Handler, *Server, error) {
	files, err := buildFileService(cfg)
	if err != nil {
		return nil, nil, err
	}

	srv := &Server{
		FilesService: files,
		Cfg:          cfg,
	}

	return srv.routes(), srv, nil
}

func buildFileService(cfg *config.Config) (*filesvc.Files, error) {
	store, err := meta.NewFSStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return filesvc.New(filesvc.Deps{
		MetaStorage: store,
		Classifier:  classify.New(cfg.ClassifierCmd),
	}), nil
}

// routes регистрирует обработчики. JSON-ответы (листинг, метаданные) ходят
// через gzip-обёртку; содержимое файлов — нет, иначе ломается Range.
func (s *Server) routes() http.Handler {
	rtr := chi.NewRouter()

	rtr.Post("/files", s.createFile)
	rtr.Method(http.MethodGet, "/files", gzhttp.GzipHandler(http.HandlerFunc(s.listFiles)))

	rtr.Route("/files/{id}", func(fr chi.Router) {
		// PUT и POST принимаем оба, чтобы не спорить со старыми клиентами.
		fr.Post("/upload", s.uploadChunk)
		fr.Put("/upload", s.uploadChunk)
		fr.Method(http.MethodGet, "/meta", gzhttp.GzipHandler(http.HandlerFunc(s.getMeta)))
		fr.Get("/", s.getContent)
		fr.Get("/{name}", s.getContent)
	})

	rtr.Get("/health", s.health)
	rtr.HandleFunc("/admin/gc", s.gcOnce)

	return rtr
}
