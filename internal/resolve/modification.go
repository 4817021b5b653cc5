package resolve

// Modification 是资源引用前缀 "<start>,<end>:" 中的两个数字段。
// 保留原始文本（含前导 0），改写时逐字节还原。
type Modification struct {
	Start string
	End   string
}

// IsZero 表示引用不带前缀。
func (m Modification) IsZero() bool { return m.Start == "" && m.End == "" }

// String 返回可直接拼接在路径前的形式 "<start>,<end>:"；无前缀时为空串。
func (m Modification) String() string {
	if m.IsZero() {
		return ""
	}
	return m.Start + "," + m.End + ":"
}

// SplitModification 识别开头的 "<digits>,<digits>:" 前缀。
// 两段数字都至少 1 位；不匹配时原样返回 s，ok=false。
func SplitModification(s string) (m Modification, rest string, ok bool) {
	i := scanDigits(s, 0)
	if i == 0 || i >= len(s) || s[i] != ',' {
		return Modification{}, s, false
	}
	j := scanDigits(s, i+1)
	if j == i+1 || j >= len(s) || s[j] != ':' {
		return Modification{}, s, false
	}
	return Modification{Start: s[:i], End: s[i+1 : j]}, s[j+1:], true
}

func scanDigits(s string, from int) int {
	i := from
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
