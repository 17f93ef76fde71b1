package directoryservice

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrClientNotFound возвращается, когда профиль клиента не найден
	ErrClientNotFound = errors.New("client profile not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directoryservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directoryservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что DirectoryService недоступен и следует использовать заглушку профиля
	ErrServiceDegraded = errors.New("directoryservice unavailable: graceful degradation applied")
)
