// flash.go — одноразовые уведомления (flash notices).
// Уведомление записывается в cookie при редиректе после мутации и
// читается ровно один раз при следующем рендере страницы, после чего
// cookie удаляется. Локализация выполняется в момент рендера, поэтому
// в cookie хранится ключ перевода, а не готовый текст.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// Имя cookie для одноразового уведомления.
const FlashCookieName = "residence_flash"

// Виды уведомлений.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash — одноразовое уведомление.
type Flash struct {
	// Key — ключ перевода сообщения.
	Key string `json:"key"`
	// Kind — вид уведомления: success или error.
	Kind string `json:"kind"`
	// Args — аргументы для подстановки в переведённое сообщение
	// (например, количество отправленных напоминаний).
	Args []string `json:"args,omitempty"`
}

// SetFlash записывает уведомление в cookie ответа.
func SetFlash(w http.ResponseWriter, flash Flash) {
	payload, err := json.Marshal(flash)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash читает уведомление из cookie запроса и сразу удаляет cookie.
// Возвращает nil, если уведомления нет или оно повреждено.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}

	// Удаляем cookie: уведомление показывается ровно один раз
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var flash Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil
	}
	return &flash
}
