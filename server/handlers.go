package server

import (
	"image"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/matajoh/visionnet-sub000/detectors/canny"
	"github.com/matajoh/visionnet-sub000/detectors/fast"
	"github.com/matajoh/visionnet-sub000/detectors/harris"
	"github.com/matajoh/visionnet-sub000/images"
	"github.com/matajoh/visionnet-sub000/render"
)

// pointJSON is the wire form of a detected corner.
type pointJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// edgesResponse carries a Canny result.
type edgesResponse struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	EdgeCount  int    `json:"edge_count"`
	MaskBase64 string `json:"mask_base64"`
	MimeType   string `json:"mime_type"`
}

// cornersResponse carries a Harris or FAST result.
type cornersResponse struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Count  int         `json:"count"`
	Points []pointJSON `json:"points"`
}

func (s *Server) handleEdges(c *gin.Context) {
	gray, ok := s.uploadedGray(c)
	if !ok {
		return
	}
	opts := canny.DefaultOptions()
	opts.Low = queryFloat(c, "low", opts.Low)
	opts.High = queryFloat(c, "high", opts.High)

	mask, err := canny.Detect(images.SobelGradient(gray), opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	encoded, err := render.MaskPNG(mask)
	if err != nil {
		s.log.WithError(err).Error("encoding edge mask")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode mask"})
		return
	}
	c.JSON(http.StatusOK, edgesResponse{
		Width:      mask.Cols,
		Height:     mask.Rows,
		EdgeCount:  mask.Count(),
		MaskBase64: encoded,
		MimeType:   "image/png",
	})
}

func (s *Server) handleCorners(c *gin.Context) {
	gray, ok := s.uploadedGray(c)
	if !ok {
		return
	}
	opts := harris.DefaultOptions()
	opts.Threshold = queryFloat(c, "threshold", opts.Threshold)
	opts.Sigma = queryFloat(c, "sigma", opts.Sigma)

	corners, err := harris.Detect(images.SobelGradient(gray), opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cornersResp(gray, corners))
}

func (s *Server) handleFAST(c *gin.Context) {
	gray, ok := s.uploadedGray(c)
	if !ok {
		return
	}
	opts := fast.DefaultOptions()
	opts.Threshold = queryInt(c, "threshold", opts.Threshold)
	opts.SegmentLength = queryInt(c, "segment_length", opts.SegmentLength)
	if v, present := c.GetQuery("nms"); present {
		opts.NonMaxSuppression = v == "true" || v == "1"
	}

	corners, err := fast.Detect(gray, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cornersResp(gray, corners))
}

// uploadedGray decodes the multipart "image" field into an intensity image.
// On failure it writes the error response and returns false.
func (s *Server) uploadedGray(c *gin.Context) (*images.Gray, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxRequestBodySize)
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image upload"})
		return nil, false
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image upload"})
		return nil, false
	}
	defer f.Close()
	img, err := imaging.Decode(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format"})
		return nil, false
	}
	return images.GrayFromImage(imaging.Grayscale(img)), true
}

func cornersResp(gray *images.Gray, corners []image.Point) cornersResponse {
	points := make([]pointJSON, len(corners))
	for i, p := range corners {
		points[i] = pointJSON{X: p.X, Y: p.Y}
	}
	return cornersResponse{
		Width:  gray.Cols,
		Height: gray.Rows,
		Count:  len(points),
		Points: points,
	}
}

func queryFloat(c *gin.Context, key string, fallback float32) float32 {
	if v, present := c.GetQuery(key); present {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v, present := c.GetQuery(key); present {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
