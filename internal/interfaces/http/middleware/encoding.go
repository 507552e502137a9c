package middleware

import (
	"bytes"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// EnsureUTF8Body 请求体编码归一化中间件
// Windows 下 curl 可能以 GBK 发送聊天文本，这里检测并转成 UTF-8，
// 避免非法字节进入分类器和提示词
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body.Close()

		if !utf8.Valid(body) {
			if converted, err := gbkToUTF8(body); err == nil && utf8.Valid(converted) {
				body = converted
				c.Request.ContentLength = int64(len(body))
				c.Request.Header.Set("Content-Length", strconv.Itoa(len(body)))
			}
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}

// gbkToUTF8 GBK 转 UTF-8
func gbkToUTF8(data []byte) ([]byte, error) {
	reader := transform.NewReader(bytes.NewReader(data), simplifiedchinese.GBK.NewDecoder())
	return io.ReadAll(reader)
}
