package segment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	nhttp "github.com/chaos-io/whitebg/util/http"
)

const (
	BiRefNetModel   = "BiRefNet"
	defaultEndpoint = "http://192.168.4.188:8188/api/segment"
)

// BiRefNet 通过 HTTP 调 BiRefNet 推理服务做背景分割
// 服务端收 multipart 图片，返回带 alpha 的 PNG 字节
type BiRefNet struct {
	endpoint string
	cli      nhttp.IClient
}

func NewBiRefNet(endpoint string) *BiRefNet {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &BiRefNet{
		endpoint: endpoint,
		cli:      nhttp.NewHTTPClient(),
	}
}

/*
	curl -X POST "$BASE_URL/api/segment" \
	  -F "image=@my_image.png" \
	  -F "model=BiRefNet" \
	  --output cutout.png
*/
func (b *BiRefNet) Segment(ctx context.Context, img []byte) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// image 文件字段
	part, err := writer.CreateFormFile("image", "input.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(img)); err != nil {
		return nil, fmt.Errorf("copy form file: %w", err)
	}

	// 其他字段
	_ = writer.WriteField("model", BiRefNetModel)
	_ = writer.Close()

	out := &bytes.Buffer{}
	reqParam := &nhttp.RequestParam{
		RequestURI: b.endpoint,
		Method:     "POST",
		Header:     map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:       body,
		Response:   out,
	}
	if err := b.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	slog.Debug("got segmentation response", "bytes", out.Len())

	return out.Bytes(), nil
}
