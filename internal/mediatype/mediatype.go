// Package mediatype 把文件名映射到 mime 类型，再映射到资源归类。
package mediatype

import (
	"path/filepath"
	"strings"

	"github.com/John-Robertt/kdorg/internal/domain"
)

// types 是 mime-db 中顶级类型为 video/image/audio 的全部扩展名。
// 不读取系统的 mime.types，保证同一工程在任何机器上归类一致；表外的扩展名一律归 other。
// 多个类型共用一个扩展名时取 mime-db 解析后的结果（如 3gpp -> video/3gpp，jpm -> image/jpm）。
var types = map[string]string{
	// video
	".3g2":   "video/3gpp2",
	".3gp":   "video/3gpp",
	".3gpp":  "video/3gpp",
	".asf":   "video/x-ms-asf",
	".asx":   "video/x-ms-asf",
	".avi":   "video/x-msvideo",
	".dvb":   "video/vnd.dvb.file",
	".f4v":   "video/x-f4v",
	".fli":   "video/x-fli",
	".flv":   "video/x-flv",
	".fvt":   "video/vnd.fvt",
	".h261":  "video/h261",
	".h263":  "video/h263",
	".h264":  "video/h264",
	".jpgv":  "video/jpeg",
	".m1v":   "video/mpeg",
	".m2t":   "video/mp2t",
	".m2ts":  "video/mp2t",
	".m2v":   "video/mpeg",
	".m4s":   "video/iso.segment",
	".m4u":   "video/vnd.mpegurl",
	".m4v":   "video/x-m4v",
	".mj2":   "video/mj2",
	".mjp2":  "video/mj2",
	".mk3d":  "video/x-matroska",
	".mks":   "video/x-matroska",
	".mkv":   "video/x-matroska",
	".mng":   "video/x-mng",
	".mov":   "video/quicktime",
	".movie": "video/x-sgi-movie",
	".mp4":   "video/mp4",
	".mp4v":  "video/mp4",
	".mpe":   "video/mpeg",
	".mpeg":  "video/mpeg",
	".mpg":   "video/mpeg",
	".mpg4":  "video/mp4",
	".mts":   "video/mp2t",
	".mxu":   "video/vnd.mpegurl",
	".ogv":   "video/ogg",
	".pyv":   "video/vnd.ms-playready.media.pyv",
	".qt":    "video/quicktime",
	".smv":   "video/x-smv",
	".ts":    "video/mp2t",
	".uvh":   "video/vnd.dece.hd",
	".uvm":   "video/vnd.dece.mobile",
	".uvp":   "video/vnd.dece.pd",
	".uvs":   "video/vnd.dece.sd",
	".uvu":   "video/vnd.uvvu.mp4",
	".uvv":   "video/vnd.dece.video",
	".uvvh":  "video/vnd.dece.hd",
	".uvvm":  "video/vnd.dece.mobile",
	".uvvp":  "video/vnd.dece.pd",
	".uvvs":  "video/vnd.dece.sd",
	".uvvu":  "video/vnd.uvvu.mp4",
	".uvvv":  "video/vnd.dece.video",
	".viv":   "video/vnd.vivo",
	".vob":   "video/x-ms-vob",
	".webm":  "video/webm",
	".wm":    "video/x-ms-wm",
	".wmv":   "video/x-ms-wmv",
	".wmx":   "video/x-ms-wmx",
	".wvx":   "video/x-ms-wvx",

	// image
	".3ds":   "image/x-3ds",
	".apng":  "image/apng",
	".avci":  "image/avci",
	".avcs":  "image/avcs",
	".avif":  "image/avif",
	".azv":   "image/vnd.airzip.accelerator.azv",
	".b16":   "image/vnd.pco.b16",
	".bmp":   "image/bmp",
	".btif":  "image/prs.btif",
	".cgm":   "image/cgm",
	".cmx":   "image/x-cmx",
	".dds":   "image/vnd.ms-dds",
	".dib":   "image/bmp",
	".djv":   "image/vnd.djvu",
	".djvu":  "image/vnd.djvu",
	".dpx":   "image/dpx",
	".drle":  "image/dicom-rle",
	".dwg":   "image/vnd.dwg",
	".dxf":   "image/vnd.dxf",
	".emf":   "image/emf",
	".exr":   "image/aces",
	".fbs":   "image/vnd.fastbidsheet",
	".fh":    "image/x-freehand",
	".fh4":   "image/x-freehand",
	".fh5":   "image/x-freehand",
	".fh7":   "image/x-freehand",
	".fhc":   "image/x-freehand",
	".fits":  "image/fits",
	".fpx":   "image/vnd.fpx",
	".fst":   "image/vnd.fst",
	".g3":    "image/g3fax",
	".gif":   "image/gif",
	".heic":  "image/heic",
	".heics": "image/heic-sequence",
	".heif":  "image/heif",
	".heifs": "image/heif-sequence",
	".hej2":  "image/hej2k",
	".hsj2":  "image/hsj2",
	".ico":   "image/vnd.microsoft.icon",
	".ief":   "image/ief",
	".jhc":   "image/jphc",
	".jls":   "image/jls",
	".jng":   "image/x-jng",
	".jp2":   "image/jp2",
	".jpe":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".jpf":   "image/jpx",
	".jpg":   "image/jpeg",
	".jpg2":  "image/jp2",
	".jpgm":  "image/jpm",
	".jph":   "image/jph",
	".jpm":   "image/jpm",
	".jpx":   "image/jpx",
	".jxl":   "image/jxl",
	".jxr":   "image/jxr",
	".jxra":  "image/jxra",
	".jxrs":  "image/jxrs",
	".jxs":   "image/jxs",
	".jxsc":  "image/jxsc",
	".jxsi":  "image/jxsi",
	".jxss":  "image/jxss",
	".ktx":   "image/ktx",
	".ktx2":  "image/ktx2",
	".mdi":   "image/vnd.ms-modi",
	".mmr":   "image/vnd.fujixerox.edmics-mmr",
	".npx":   "image/vnd.net-fpx",
	".pbm":   "image/x-portable-bitmap",
	".pct":   "image/x-pict",
	".pcx":   "image/vnd.zbrush.pcx",
	".pgm":   "image/x-portable-graymap",
	".pic":   "image/x-pict",
	".png":   "image/png",
	".pnm":   "image/x-portable-anymap",
	".ppm":   "image/x-portable-pixmap",
	".psd":   "image/vnd.adobe.photoshop",
	".pti":   "image/prs.pti",
	".ras":   "image/x-cmu-raster",
	".rgb":   "image/x-rgb",
	".rlc":   "image/vnd.fujixerox.edmics-rlc",
	".sgi":   "image/sgi",
	".sid":   "image/x-mrsid-image",
	".svg":   "image/svg+xml",
	".svgz":  "image/svg+xml",
	".t38":   "image/t38",
	".tap":   "image/vnd.tencent.tap",
	".tfx":   "image/tiff-fx",
	".tga":   "image/x-tga",
	".tif":   "image/tiff",
	".tiff":  "image/tiff",
	".uvg":   "image/vnd.dece.graphic",
	".uvi":   "image/vnd.dece.graphic",
	".uvvg":  "image/vnd.dece.graphic",
	".uvvi":  "image/vnd.dece.graphic",
	".vtf":   "image/vnd.valve.source.texture",
	".wbmp":  "image/vnd.wap.wbmp",
	".wdp":   "image/vnd.ms-photo",
	".webp":  "image/webp",
	".wmf":   "image/wmf",
	".xbm":   "image/x-xbitmap",
	".xif":   "image/vnd.xiff",
	".xpm":   "image/x-xpixmap",
	".xwd":   "image/x-xwindowdump",

	// audio
	".aac":       "audio/x-aac",
	".adp":       "audio/adpcm",
	".aif":       "audio/x-aiff",
	".aifc":      "audio/x-aiff",
	".aiff":      "audio/x-aiff",
	".amr":       "audio/amr",
	".au":        "audio/basic",
	".caf":       "audio/x-caf",
	".dra":       "audio/vnd.dra",
	".dts":       "audio/vnd.dts",
	".dtshd":     "audio/vnd.dts.hd",
	".ecelp4800": "audio/vnd.nuera.ecelp4800",
	".ecelp7470": "audio/vnd.nuera.ecelp7470",
	".ecelp9600": "audio/vnd.nuera.ecelp9600",
	".eol":       "audio/vnd.digital-winds",
	".flac":      "audio/x-flac",
	".kar":       "audio/midi",
	".lvp":       "audio/vnd.lucent.voice",
	".m2a":       "audio/mpeg",
	".m3a":       "audio/mpeg",
	".m3u":       "audio/x-mpegurl",
	".m4a":       "audio/mp4",
	".mid":       "audio/midi",
	".midi":      "audio/midi",
	".mka":       "audio/x-matroska",
	".mp2":       "audio/mpeg",
	".mp2a":      "audio/mpeg",
	".mp3":       "audio/mpeg",
	".mp4a":      "audio/mp4",
	".mpga":      "audio/mpeg",
	".mxmf":      "audio/mobile-xmf",
	".oga":       "audio/ogg",
	".ogg":       "audio/ogg",
	".opus":      "audio/ogg",
	".pya":       "audio/vnd.ms-playready.media.pya",
	".ra":        "audio/x-pn-realaudio",
	".ram":       "audio/x-pn-realaudio",
	".rip":       "audio/vnd.rip",
	".rmi":       "audio/midi",
	".rmp":       "audio/x-pn-realaudio-plugin",
	".s3m":       "audio/s3m",
	".sil":       "audio/silk",
	".snd":       "audio/basic",
	".spx":       "audio/ogg",
	".uva":       "audio/vnd.dece.audio",
	".uvva":      "audio/vnd.dece.audio",
	".wav":       "audio/wav",
	".wax":       "audio/x-ms-wax",
	".weba":      "audio/webm",
	".wma":       "audio/x-ms-wma",
	".xm":        "audio/xm",
}

// Lookup 返回 name 的 mime 类型。
// 没有扩展名或不是音视频/图片扩展名时返回 ok=false。
func Lookup(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || ext == "." {
		return "", false
	}
	t, ok := types[ext]
	return t, ok
}

// Classify 把文件名归类；查不到 mime 时返回 other。
func Classify(name string) domain.Category {
	t, ok := Lookup(name)
	if !ok {
		return domain.CategoryOther
	}
	return domain.CategoryForMIME(t)
}
