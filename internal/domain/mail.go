package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateOperatorMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// AllocationReportMailData: 优化完成后发给病区邮箱的摘要
type AllocationReportMailData struct {
	RunID       int64    `json:"runID"`
	Explanation string   `json:"explanation"`
	Utilization float64  `json:"utilization"`
	Conflicts   []string `json:"conflicts"`
}
