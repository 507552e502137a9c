package hr

import "errors"

var (
	// ErrEmployeeNotFound 员工记录不存在
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrDocumentNotFound 文档不存在
	ErrDocumentNotFound = errors.New("document not found")
	// ErrStoreUnavailable 文档存储不可用，向上传播，不在核心内重试
	ErrStoreUnavailable = errors.New("document store unavailable")
)
