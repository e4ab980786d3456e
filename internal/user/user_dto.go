package user

type CreateUserRequest struct {
	Name           string  `json:"name" binding:"required"`
	Username       string  `json:"username" binding:"required"`
	Password       string  `json:"password" binding:"required,min=6"`
	Role           string  `json:"role" binding:"required,oneof=employee manager admin"`
	SalaryPerMonth float64 `json:"salary_per_month" binding:"gte=0"`
	SerialNumber   *string `json:"serial_number"`
}

type UpdateUserRequest struct {
	Name           string  `json:"name" binding:"required"`
	Username       string  `json:"username" binding:"required"`
	Role           string  `json:"role" binding:"required,oneof=employee manager admin"`
	SalaryPerMonth float64 `json:"salary_per_month" binding:"gte=0"`
	SerialNumber   *string `json:"serial_number"`
	Password       *string `json:"password"` // optional, only replaced when set
}

type AssignNFCRequest struct {
	NFCUID string `json:"nfc_uid" binding:"required"`
}

type UserResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Username       string  `json:"username"`
	Role           string  `json:"role"`
	SalaryPerMonth float64 `json:"salary_per_month"`
	SerialNumber   *string `json:"serial_number,omitempty"`
	DeviceID       *string `json:"device_id,omitempty"`
	NFCUID         *string `json:"nfc_uid,omitempty"`
}
