package http

import (
	_ "embed"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var welcomeHTML []byte

// welcomePage serves the embedded demo chat page.
func welcomePage(c *gin.Context) {
	c.Data(stdhttp.StatusOK, "text/html; charset=utf-8", welcomeHTML)
}
