package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cmdtower/pkg/buildinfo"
	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/layout"
	"github.com/matzehuels/cmdtower/pkg/pipeline"
	"github.com/matzehuels/cmdtower/pkg/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// createRequest is the body of POST /v1/layouts. Exactly one of Chain (a
// JSON chain document) and Document (a document in Format) is required.
type createRequest struct {
	Chain    json.RawMessage `json:"chain,omitempty"`
	Document string          `json:"document,omitempty"`
	Format   string          `json:"format,omitempty"`
	Name     string          `json:"name,omitempty"`

	Min         *coord.Coordinate  `json:"min,omitempty"`
	Max         *coord.Coordinate  `json:"max,omitempty"`
	Orientation *coord.Orientation `json:"orientation,omitempty"`
	Refresh     bool               `json:"refresh,omitempty"`
}

func (req *createRequest) chain() (*chain.Chain, error) {
	var (
		c   *chain.Chain
		err error
	)
	switch {
	case len(req.Chain) > 0 && req.Document != "":
		return nil, errors.New(errors.ErrCodeInvalidArgument, "chain and document are mutually exclusive")
	case len(req.Chain) > 0:
		c, err = chain.Parse(req.Chain, chain.FormatJSON)
	case req.Document != "":
		var format chain.Format
		if format, err = chain.ParseFormat(req.Format); err != nil {
			return nil, err
		}
		c, err = chain.Parse([]byte(req.Document), format)
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "chain or document is required")
	}
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		c.Name = req.Name
	}
	return c, nil
}

func (req *createRequest) options(defaults pipeline.Options) pipeline.Options {
	opts := defaults
	if req.Min != nil {
		opts.Min = *req.Min
		opts.Max = coord.Coordinate{}
	}
	if req.Max != nil {
		opts.Max = *req.Max
	}
	if req.Orientation != nil {
		opts.Orientation = *req.Orientation
	}
	opts.Refresh = req.Refresh
	return opts
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidArgument, err, "decode request"))
		return
	}

	c, err := req.chain()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l, hit, err := s.runner.PlaceWithCacheInfo(r.Context(), c, req.options(s.opts.Defaults))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), l); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("placed chain",
		"id", l.ID,
		"commands", c.Len(),
		"side", l.SideLength,
		"attempts", l.Attempts,
		"cached", hit)

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Location", "/v1/layouts/"+l.ID)
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "invalid limit %q", v))
			return
		}
		limit = n
	}

	summaries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// layout loads the layout named by the {id} URL parameter.
func (s *Server) layout(r *http.Request) (*layout.Layout, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.layout(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var contentTypes = map[string]string{
	pipeline.FormatNBT: "application/octet-stream",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
}

func (s *Server) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := s.layout(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		opts := s.opts.Defaults
		opts.Formats = []string{format}
		if v := r.URL.Query().Get("detailed"); v != "" {
			detailed, err := strconv.ParseBool(v)
			if err != nil {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "invalid detailed flag %q", v))
				return
			}
			opts.Detailed = detailed
		}

		artifacts, hit, err := s.runner.ExportWithCacheInfo(r.Context(), l, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		if hit {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		if format == pipeline.FormatNBT {
			name := l.Name
			if name == "" {
				name = l.ID
			}
			w.Header().Set("Content-Disposition", `attachment; filename="`+sanitizeFilename(name)+`.nbt"`)
		}
		w.Header().Set("Content-Type", contentTypes[format])
		_, _ = w.Write(artifacts[format])
	}
}

// sanitizeFilename keeps letters, digits, dash and underscore.
func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "structure"
	}
	return string(out)
}
