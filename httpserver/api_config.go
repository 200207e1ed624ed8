package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartolab/riverlabel/labeler"
	"github.com/cartolab/riverlabel/render"
)

func (srv *HTTPServer) handleReload(c *gin.Context) {
	type reloadResponse struct {
		Message string `json:"message"`
	}

	err := srv.reloadFn()
	if err != nil {
		srv.logger.Error(err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{
			Error: "an internal error occurred: check the logs",
		})
		return
	}

	srv.logger.Infof("labeler config reloaded")

	c.JSON(http.StatusOK, reloadResponse{
		Message: "config has been reloaded",
	})
}

func (srv *HTTPServer) handleGetConfig(c *gin.Context) {
	type configResponse struct {
		LabelerConfig labeler.Config `json:"labeler"`
		RenderConfig  render.Config  `json:"render"`
	}

	type getConfigResponse struct {
		Config configResponse `json:"config"`
	}

	labelerConfig, err := srv.labelerManager.Config()
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIErrorResponse{
			Error: "an internal error occurred: check the logs",
		})
		return
	}

	var resp getConfigResponse
	resp.Config.LabelerConfig = labelerConfig
	resp.Config.RenderConfig = srv.renderer.Config()

	c.JSON(http.StatusOK, resp)
}
