package ir

import (
	"strconv"
	"strings"
)

// BaseTypeBytes maps fixed-size wire base types to their byte width.
var BaseTypeBytes = map[string]int{
	"char":              1,
	"uint8_t":           1,
	"uint16_t":          2,
	"uint32_t":          4,
	"uint64_t":          8,
	"of_port_no_t":      4,
	"of_fm_cmd_t":       2,
	"of_wc_bmap_t":      4,
	"of_match_bmap_t":   4,
	"of_mac_addr_t":     6,
	"of_ipv4_t":         4,
	"of_ipv6_t":         16,
	"of_port_name_t":    16,
	"of_table_name_t":   32,
	"of_desc_str_t":     256,
	"of_serial_num_t":   32,
	"of_bitmap_128_t":   16,
	"of_checksum_128_t": 16,
}

// ParseTypeDecl splits a wire type declaration into base type and element count.
// "uint8_t[6]" yields ("uint8_t", 6); "uint16_t" yields ("uint16_t", 1).
func ParseTypeDecl(decl string) (base string, count int) {
	decl = strings.TrimSpace(decl)
	open := strings.IndexByte(decl, '[')
	if open < 0 || !strings.HasSuffix(decl, "]") {
		return decl, 1
	}
	n, err := strconv.Atoi(decl[open+1 : len(decl)-1])
	if err != nil || n < 0 {
		return decl, 1
	}
	return decl[:open], n
}

// IsListType reports whether the declaration is a variable-length list.
func IsListType(decl string) bool {
	return strings.HasPrefix(decl, "list(") || strings.HasPrefix(decl, "of_list_")
}

// TypeBytes returns the byte width of a wire type declaration.
// The second result is false for variable-length or unknown types.
func TypeBytes(decl string) (int, bool) {
	base, count := ParseTypeDecl(decl)
	size, ok := BaseTypeBytes[base]
	if !ok {
		return 0, false
	}
	return size * count, true
}
