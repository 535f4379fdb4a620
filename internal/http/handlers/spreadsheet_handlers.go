package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/rogerio-castellano/shop-inventory/internal/spreadsheet"
)

const maxUploadBytes = 10 << 20

// ImportProductsHandler godoc
// @Summary Import products from a spreadsheet
// @Description Upserts rows by name. Only the cells present in a row overwrite an existing product.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx or csv file with at least a Name column"
// @Success 200 {object} spreadsheet.Result
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /products/import [post]
// @Security BearerAuth
func (s *Server) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format, err := spreadsheet.FormatOf(header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.importer.Import(r.Context(), file, format)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrMissingNameColumn) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Warn().Err(err).Str("file", header.Filename).Msg("import failed")
		http.Error(w, "could not import file", http.StatusBadRequest)
		return
	}
	s.respond(w, http.StatusOK, result)
}

// ExportProductsHandler godoc
// @Summary Export products
// @Description Same columns as the import, so the file can be edited and imported back.
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "xlsx (default) or csv"
// @Success 200 {file} file
// @Failure 400 {string} string "Unsupported format"
// @Router /products/export [get]
// @Security BearerAuth
func (s *Server) ExportProductsHandler(w http.ResponseWriter, r *http.Request) {
	format, err := spreadsheet.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.Products(r.Context(), &buf, format); err != nil {
		s.internalError(w, "could not export products", err)
		return
	}

	setAttachment(w, spreadsheet.ExportFileName(s.now(), format), format.ContentType())
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Error().Err(err).Msg("failed to write export")
	}
}

// ExportPriceListHandler godoc
// @Summary Export the price list
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "xlsx (default) or csv"
// @Success 200 {file} file
// @Failure 400 {string} string "Unsupported format"
// @Router /price-list/export [get]
// @Security BearerAuth
func (s *Server) ExportPriceListHandler(w http.ResponseWriter, r *http.Request) {
	format, err := spreadsheet.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.PriceList(r.Context(), &buf, format); err != nil {
		s.internalError(w, "could not export price list", err)
		return
	}

	setAttachment(w, spreadsheet.PriceListFileName(format), format.ContentType())
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Error().Err(err).Msg("failed to write price list")
	}
}
