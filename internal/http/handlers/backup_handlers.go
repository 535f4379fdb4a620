package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rogerio-castellano/shop-inventory/internal/backup"
)

// BackupHandler godoc
// @Summary Download a snapshot of the store file
// @Description The snapshot is also kept in the backup directory.
// @Tags backup
// @Produce application/octet-stream
// @Success 200 {file} file
// @Failure 501 {string} string "Store is not file based"
// @Failure 500 {string} string "Internal error"
// @Router /backup [get]
// @Security BearerAuth
func (s *Server) BackupHandler(w http.ResponseWriter, r *http.Request) {
	path, err := backup.Snapshot(s.storePath, s.backupDir, s.now())
	if err != nil {
		if errors.Is(err, backup.ErrBackupUnsupported) {
			http.Error(w, err.Error(), http.StatusNotImplemented)
			return
		}
		s.internalError(w, "could not create backup", err)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		s.internalError(w, "could not open backup", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.internalError(w, "could not open backup", err)
		return
	}

	s.log.Info().Str("path", path).Msg("backup created")
	setAttachment(w, filepath.Base(path), "application/octet-stream")
	http.ServeContent(w, r, "", info.ModTime(), f)
}
