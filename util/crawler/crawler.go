package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/chaos-io/whitebg/util"
)

// 给批处理的输入目录喂图：抓一个页面里的 <img>，按子串过滤后下载
func main() {
	pageURL := flag.String("page", "", "要爬的页面")
	filter := flag.String("filter", "", "只下载 src 包含该子串的图片")
	saveDir := flag.String("dir", "./input", "保存目录")
	flag.Parse()

	if *pageURL == "" {
		fmt.Println("用法: crawler -page <url> [-filter substr] [-dir ./input]")
		os.Exit(1)
	}

	err := os.MkdirAll(*saveDir, 0755)
	if err != nil {
		panic(err)
	}

	resp, err := http.Get(*pageURL)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		panic(err)
	}

	// 匹配 img 标签中的 src
	re := regexp.MustCompile(`<img[^>]+src="([^">]+)"`)
	matches := re.FindAllSubmatch(body, -1)

	baseURL, _ := url.Parse(*pageURL)

	for _, m := range matches {
		imgURL := string(m[1])
		if *filter != "" && !strings.Contains(imgURL, *filter) {
			continue
		}
		imgURL = normalizeThumbURL(imgURL)

		// 补全相对路径
		u, err := url.Parse(imgURL)
		if err != nil {
			continue
		}
		fullURL := baseURL.ResolveReference(u).String()

		fmt.Println("下载:", fullURL)

		err = saveImage(fullURL, *saveDir)
		if err != nil {
			fmt.Println("失败:", err)
		}
	}
}

// saveImage 下载并解码后统一存成 PNG，解不开的链接（图标、脚本等）直接丢弃
func saveImage(imgURL, saveDir string) error {
	img, err := util.DownloadImage(imgURL)
	if err != nil {
		return err
	}

	u, _ := url.Parse(imgURL)
	base := path.Base(u.Path)
	stem := strings.TrimSuffix(base, path.Ext(base))

	file, err := os.Create(path.Join(saveDir, stem+".png"))
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// normalizeThumbURL 维基类站点的缩略图 URL 还原成原图
func normalizeThumbURL(imgURL string) string {
	if strings.Contains(imgURL, "/thumb/") {
		parts := strings.Split(imgURL, "/thumb/")
		if len(parts) != 2 {
			return imgURL
		}
		sub := parts[1]
		idx := strings.LastIndex(sub, "/")
		if idx == -1 {
			return imgURL
		}
		return parts[0] + "/" + sub[:idx]
	}
	return imgURL
}
