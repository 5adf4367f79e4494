package firebase

type authRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// Secure Token API responses use snake_case keys.
type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

type firebaseErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type firebaseErrors struct {
	Error firebaseErrorDetail `json:"error"`
}

// Realtime Database errors come back as {"error": "message"}.
type databaseError struct {
	Error string `json:"error"`
}
