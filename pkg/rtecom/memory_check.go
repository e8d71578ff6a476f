//go:build rtecom_memwrite && !rtecom_memread

package rtecom

// Raw memory writes need raw memory reads: build with rtecom_memread too.
var _ = rtecom_memwrite_requires_rtecom_memread
