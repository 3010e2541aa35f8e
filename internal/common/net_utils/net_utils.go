// Пакет netutils содержит простые сетевые инструменты
package netutils

import (
	"net"
	"strconv"
)

// GetFreePort - получить свободный порт localhost
func GetFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// GetFreeAddr - адрес вида localhost:port со свободным портом,
// пригоден для ServerAddr веб-интерфейса
func GetFreeAddr() (string, error) {
	port, err := GetFreePort()
	if err != nil {
		return "", err
	}
	return net.JoinHostPort("localhost", strconv.Itoa(port)), nil
}
