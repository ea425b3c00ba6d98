package storage

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler serves the redirect routes built by Routes. Mount it at
// Routes().Prefix().
func Handler(m *Manager) http.Handler {
	h := &handler{manager: m}
	r := chi.NewRouter()
	r.Get("/blobs/redirect/{signedID}/{filename}", h.blob)
	r.Get("/representations/redirect/{signedID}/{variation}/{filename}", h.representation)
	return r
}

type handler struct {
	manager *Manager
}

func (h *handler) blob(w http.ResponseWriter, r *http.Request) {
	blob, err := h.manager.Lookup(chi.URLParam(r, "signedID"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.redirect(w, r, blob)
}

func (h *handler) representation(w http.ResponseWriter, r *http.Request) {
	blob, err := h.manager.Lookup(chi.URLParam(r, "signedID"))
	if err != nil {
		writeError(w, err)
		return
	}
	encoded, err := h.manager.verifier.Verify(PurposeVariation, chi.URLParam(r, "variation"))
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := decodeTransformation(encoded)
	if err != nil {
		writeError(w, err)
		return
	}

	derived, err := h.manager.process(r.Context(), &Variation{Blob: blob, Transformation: t, manager: h.manager})
	if err != nil {
		writeError(w, err)
		return
	}
	h.redirect(w, r, derived)
}

func (h *handler) redirect(w http.ResponseWriter, r *http.Request, blob *Blob) {
	opts := blob.URLOptions()
	opts.ExpiresIn = DefaultURLExpiry
	target, err := h.manager.service.URL(r.Context(), blob.Key, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidSignature), errors.Is(err, ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, ErrNotRepresentable), errors.Is(err, ErrInvalidTransformation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
