package domain

import "strings"

// Category 是资源按媒体类型划分的归类结果，同时也是默认的目标子目录名。
type Category string

const (
	CategoryClips  Category = "clips"
	CategoryImages Category = "images"
	CategoryAudio  Category = "audio"
	CategoryOther  Category = "other"
)

// Categories 按固定顺序返回全部归类（用于配置校验与稳定输出）。
func Categories() []Category {
	return []Category{CategoryClips, CategoryImages, CategoryAudio, CategoryOther}
}

// CategoryForMIME 只看 mime 的顶级类型（video/image/audio）。
// 空串或其他任何顶级类型都落到 other，从不报错。
func CategoryForMIME(mimeType string) Category {
	top, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mimeType)), "/")
	switch top {
	case "video":
		return CategoryClips
	case "image":
		return CategoryImages
	case "audio":
		return CategoryAudio
	default:
		return CategoryOther
	}
}
