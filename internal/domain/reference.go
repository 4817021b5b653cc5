package domain

// RefKind 区分 producer 上的两类资源引用。
type RefKind string

const (
	// RefWarp 是 warp_resource：只改写文本，不触发建目录/移动。
	RefWarp RefKind = "warp_resource"
	// RefResource 是主资源 resource：改写文本并驱动建目录/移动。
	RefResource RefKind = "resource"
)

// PropertyName 返回该引用在 MLT XML 中对应的 property name。
func (k RefKind) PropertyName() string { return string(k) }
