package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"gopkg.in/guregu/null.v4"

	"github.com/cartolab/riverlabel/geo"
	"github.com/cartolab/riverlabel/labeler"
	"github.com/cartolab/riverlabel/render"
	"github.com/cartolab/riverlabel/wkt"
)

type LabelRequest struct {
	// one or more WKT records, concatenated.
	WKT string `json:"wkt"`
	// optional label text. Falls back to the configured default.
	Text null.String `json:"text"`
	// optional font ladder bounds for this request only.
	MaxFontSize null.Float `json:"max_font_size"`
	MinFontSize null.Float `json:"min_font_size"`
}

type LabelResponse struct {
	Placement   *labeler.Placement `json:"placement"`
	DisplayText string             `json:"display_text"`
}

func formFloat(c *gin.Context, field string) (null.Float, error) {
	v := c.PostForm(field)
	if v == "" {
		return null.Float{}, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return null.Float{}, fmt.Errorf("bad %s: %q", field, v)
	}
	return null.FloatFrom(f), nil
}

// decodeLabelRequest accepts whichever request form the client chose:
// a JSON body, a multipart upload with a "file" field, or the WKT
// itself as the request body.
func (srv *HTTPServer) decodeLabelRequest(c *gin.Context) (*LabelRequest, error) {
	switch c.ContentType() {
	case gin.MIMEJSON:
		var req LabelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			srv.logger.Warnf("label: bad request json: %v", err)
			return nil, errors.New("bad request json")
		}
		return &req, nil
	case gin.MIMEMultipartPOSTForm:
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, errors.New("multipart form needs a 'file' field")
		}

		f, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("cannot open upload: %w", err)
		}
		defer f.Close()

		raw, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("cannot read upload: %w", err)
		}

		req := LabelRequest{WKT: string(raw)}
		if v := c.PostForm("text"); v != "" {
			req.Text = null.StringFrom(v)
		}
		if req.MaxFontSize, err = formFloat(c, "max_font_size"); err != nil {
			return nil, err
		}
		if req.MinFontSize, err = formFloat(c, "min_font_size"); err != nil {
			return nil, err
		}
		return &req, nil
	default:
		// the body is the wkt itself.
		raw, err := c.GetRawData()
		if err != nil {
			return nil, fmt.Errorf("cannot read request body: %w", err)
		}
		return &LabelRequest{WKT: string(raw)}, nil
	}
}

// parseLabelRequest decodes the request and parses its geometry. On
// failure it writes the error response itself and returns ok=false.
func (srv *HTTPServer) parseLabelRequest(c *gin.Context) (*LabelRequest, orb.MultiPolygon, bool) {
	req, err := srv.decodeLabelRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, &APIErrorResponse{
			Error: err.Error(),
		})
		return nil, nil, false
	}

	mp, err := wkt.Parse(req.WKT)
	if err != nil {
		srv.statsCollector.AddGeometryRejected(1)

		var malformed *wkt.MalformedGeometryError
		switch {
		case errors.Is(err, geo.ErrEmptyGeometry):
			c.JSON(http.StatusBadRequest, &APIErrorResponse{
				Error: "geometry is empty",
			})
		case errors.As(err, &malformed):
			c.JSON(http.StatusBadRequest, &APIErrorResponse{
				Error: malformed.Error(),
			})
		default:
			srv.logger.Errorf("label: wkt parse: %v", err)
			c.JSON(http.StatusInternalServerError, &APIErrorResponse{
				Error: "an internal error occurred: check the logs",
			})
		}
		return nil, nil, false
	}

	return req, mp, true
}

// placeLabel runs the pipeline against mp with a canvas-backed
// measurer. On failure it writes the error response itself.
func (srv *HTTPServer) placeLabel(c *gin.Context, req *LabelRequest, mp orb.MultiPolygon) (*labeler.Placement, *render.Canvas, bool) {
	cfg, err := srv.labelerManager.Config()
	if err != nil {
		srv.logger.Errorf("label: %v", err)
		c.JSON(http.StatusInternalServerError, &APIErrorResponse{
			Error: "an internal error occurred: check the logs",
		})
		return nil, nil, false
	}

	maxSize := cfg.MaxFontSize
	if req.MaxFontSize.Valid {
		maxSize = req.MaxFontSize.Float64
	}
	minSize := cfg.MinFontSize
	if req.MinFontSize.Valid {
		minSize = req.MinFontSize.Float64
	}
	if minSize <= 0 || maxSize < minSize {
		c.JSON(http.StatusBadRequest, &APIErrorResponse{
			Error: fmt.Sprintf("bad font size range [%0.1f, %0.1f]", minSize, maxSize),
		})
		return nil, nil, false
	}

	canvas, err := srv.renderer.NewCanvas(mp)
	if err != nil {
		srv.statsCollector.AddGeometryRejected(1)
		srv.logger.Warnf("label: %v", err)
		c.JSON(http.StatusBadRequest, &APIErrorResponse{
			Error: err.Error(),
		})
		return nil, nil, false
	}

	placement, err := srv.labelerManager.PlaceSized(mp, req.Text.ValueOrZero(), maxSize, minSize, canvas)
	if err != nil {
		var degenerate *labeler.DegenerateBodyError
		if errors.As(err, &degenerate) {
			srv.statsCollector.AddGeometryRejected(1)
			c.JSON(http.StatusBadRequest, &APIErrorResponse{
				Error: degenerate.Error(),
			})
			return nil, nil, false
		}
		srv.logger.Errorf("label: placement: %v", err)
		c.JSON(http.StatusInternalServerError, &APIErrorResponse{
			Error: "an internal error occurred: check the logs",
		})
		return nil, nil, false
	}

	srv.statsCollector.AddPlacement(string(placement.Mode), placement.Verified)

	return placement, canvas, true
}

func (srv *HTTPServer) handleLabel(c *gin.Context) {
	req, mp, ok := srv.parseLabelRequest(c)
	if !ok {
		return
	}

	placement, _, ok := srv.placeLabel(c, req, mp)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, LabelResponse{
		Placement:   placement,
		DisplayText: placement.DisplayText(),
	})
}

func (srv *HTTPServer) handleLabelImage(c *gin.Context) {
	req, mp, ok := srv.parseLabelRequest(c)
	if !ok {
		return
	}

	placement, canvas, ok := srv.placeLabel(c, req, mp)
	if !ok {
		return
	}

	if err := canvas.Draw(mp, placement); err != nil {
		srv.logger.Errorf("label: draw: %v", err)
		c.JSON(http.StatusInternalServerError, &APIErrorResponse{
			Error: "an internal error occurred: check the logs",
		})
		return
	}

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf); err != nil {
		srv.logger.Errorf("label: png encode: %v", err)
		c.JSON(http.StatusInternalServerError, &APIErrorResponse{
			Error: "an internal error occurred: check the logs",
		})
		return
	}

	srv.statsCollector.AddImagesRendered(1)

	c.Header("X-Placement-Verified", strconv.FormatBool(placement.Verified))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
