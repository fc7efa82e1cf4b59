package models

import "time"

// Category groups products into seasonal collections.
type Category string

const (
	CategorySummer Category = "summer"
	CategoryWinter Category = "winter"
)

// Valid reports whether c is a known collection.
func (c Category) Valid() bool {
	return c == CategorySummer || c == CategoryWinter
}

type Review struct {
	ID      string    `json:"id" yaml:"id"`
	Author  string    `json:"author" yaml:"author"`
	Rating  int       `json:"rating" yaml:"rating"`
	Comment string    `json:"comment" yaml:"comment"`
	Date    time.Time `json:"date" yaml:"date"`
}

type Product struct {
	ID          string   `json:"id" yaml:"id" csv:"id"`
	Name        string   `json:"name" yaml:"name" csv:"name"`
	Price       float64  `json:"price" yaml:"price" csv:"price"`
	Description string   `json:"description" yaml:"description" csv:"-"`
	Details     []string `json:"details" yaml:"details" csv:"-"`
	ImageURLs   []string `json:"imageUrls" yaml:"imageUrls" csv:"-"`
	Category    Category `json:"category" yaml:"category" csv:"category"`
	Stock       int      `json:"stock" yaml:"stock" csv:"stock"`
	Reviews     []Review `json:"reviews" yaml:"reviews" csv:"-"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	c := p
	c.Details = append([]string(nil), p.Details...)
	c.ImageURLs = append([]string(nil), p.ImageURLs...)
	c.Reviews = append([]Review(nil), p.Reviews...)
	return c
}

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is the price of the line, quantity included.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
	EmployeeOnLeave  EmployeeStatus = "on-leave"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeOnLeave:
		return true
	}
	return false
}

type Employee struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Email      string         `json:"email" yaml:"email"`
	Position   string         `json:"position" yaml:"position"`
	StartDate  time.Time      `json:"startDate" yaml:"startDate"`
	Status     EmployeeStatus `json:"status" yaml:"status"`
	HourlyRate float64        `json:"hourlyRate" yaml:"hourlyRate"`
}

// AttendanceRecord is a single shift. ClockOut is nil while the employee is still clocked in.
type AttendanceRecord struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut"`
}

// Duration of a closed shift. Open or inverted shifts count as zero.
func (r AttendanceRecord) Duration() time.Duration {
	if r.ClockOut == nil {
		return 0
	}
	d := r.ClockOut.Sub(r.ClockIn)
	if d < 0 {
		return 0
	}
	return d
}

// AttendanceEntry is a record annotated with the employee's display name.
type AttendanceEntry struct {
	AttendanceRecord
	EmployeeName string `json:"employeeName"`
}

type OrderItem struct {
	ProductID   string  `json:"productId" yaml:"productId"`
	ProductName string  `json:"productName" yaml:"productName"`
	Quantity    int     `json:"quantity" yaml:"quantity"`
	Price       float64 `json:"price" yaml:"price"`
}

type Order struct {
	ID    string      `json:"id"`
	Date  time.Time   `json:"date"`
	Items []OrderItem `json:"items"`
	Total float64     `json:"total"`
}

type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastInfo    ToastType = "info"
)

type Toast struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Type    ToastType `json:"type"`
	Exiting bool      `json:"exiting"`
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type ChatMessage struct {
	Sender        Sender    `json:"sender"`
	Text          string    `json:"text"`
	Products      []Product `json:"products,omitempty"`
	IsAPIKeyError bool      `json:"isApiKeyError,omitempty"`
}

// ProcessResponse summarises the catalog after a bulk import.
type ProcessResponse struct {
	TotalItems      int     `json:"total_items"`
	TotalCategories int     `json:"total_categories"`
	TotalPrice      float64 `json:"total_price"`
}
