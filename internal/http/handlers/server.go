package handlers

import (
	"time"

	"github.com/rogerio-castellano/shop-inventory/internal/auth"
	"github.com/rogerio-castellano/shop-inventory/internal/reorder"
	"github.com/rogerio-castellano/shop-inventory/internal/repo"
	"github.com/rogerio-castellano/shop-inventory/internal/spreadsheet"
	"github.com/rs/zerolog"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Products repo.ProductRepository
	Auth     *auth.Service
	Orders   *reorder.Generator
	Log      zerolog.Logger

	// StorePath is the file behind a single-file store. Empty disables backups.
	StorePath    string
	BackupDir    string
	CookieSecure bool
}

// Server holds the HTTP handlers of the inventory API.
type Server struct {
	products     repo.ProductRepository
	auth         *auth.Service
	orders       *reorder.Generator
	importer     *spreadsheet.Importer
	exporter     *spreadsheet.Exporter
	log          zerolog.Logger
	storePath    string
	backupDir    string
	cookieSecure bool
	now          func() time.Time
}

func NewServer(d Deps) *Server {
	orders := d.Orders
	if orders == nil {
		orders = reorder.NewGenerator("")
	}
	return &Server{
		products:     d.Products,
		auth:         d.Auth,
		orders:       orders,
		importer:     spreadsheet.NewImporter(d.Products, d.Log),
		exporter:     spreadsheet.NewExporter(d.Products),
		log:          d.Log,
		storePath:    d.StorePath,
		backupDir:    d.BackupDir,
		cookieSecure: d.CookieSecure,
		now:          time.Now,
	}
}

// Auth exposes the session service for the auth gate middleware.
func (s *Server) Auth() *auth.Service {
	return s.auth
}
