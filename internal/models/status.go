package models

// Status is an order's fulfillment state
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusPacked         Status = "packed"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusReturned       Status = "returned"
	StatusRefunded       Status = "refunded"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// transitions maps each status to the statuses an order may move to next.
// Refunded is terminal.
var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusPacked, StatusCancelled},
	StatusPacked:         {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusDelivered, StatusReturned},
	StatusOutForDelivery: {StatusDelivered, StatusReturned},
	StatusDelivered:      {StatusReturned, StatusRefunded},
	StatusCancelled:      {StatusRefunded},
	StatusReturned:       {StatusRefunded},
	StatusRefunded:       {},
}

// CanUpdateStatus reports whether an order may move from current to next
func CanUpdateStatus(current, next Status) bool {
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// NextStatus returns the first allowed transition from current, if any
func NextStatus(current Status) (Status, bool) {
	allowed := transitions[current]
	if len(allowed) == 0 {
		return "", false
	}
	return allowed[0], true
}

// AllowedTransitions returns the statuses an order in current may move to
func AllowedTransitions(current Status) []Status {
	return transitions[current]
}

// StatusMeta is static display metadata for a status, priority or payment state
type StatusMeta struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var defaultMeta = StatusMeta{Label: "Unknown", Color: "gray", Description: "Unknown state"}

var statusMeta = map[Status]StatusMeta{
	StatusPending:        {Label: "Pending", Color: "yellow", Description: "Order received, awaiting confirmation"},
	StatusConfirmed:      {Label: "Confirmed", Color: "blue", Description: "Order confirmed, queued for processing"},
	StatusProcessing:     {Label: "Processing", Color: "blue", Description: "Items are being prepared"},
	StatusPacked:         {Label: "Packed", Color: "indigo", Description: "Items packed, ready for carrier pickup"},
	StatusShipped:        {Label: "Shipped", Color: "purple", Description: "Handed to carrier"},
	StatusOutForDelivery: {Label: "Out for Delivery", Color: "orange", Description: "On the delivery vehicle"},
	StatusDelivered:      {Label: "Delivered", Color: "green", Description: "Delivered to the customer"},
	StatusCancelled:      {Label: "Cancelled", Color: "red", Description: "Order cancelled before shipment"},
	StatusReturned:       {Label: "Returned", Color: "red", Description: "Customer returned the order"},
	StatusRefunded:       {Label: "Refunded", Color: "gray", Description: "Payment refunded"},
}

var priorityMeta = map[Priority]StatusMeta{
	PriorityLow:    {Label: "Low", Color: "gray", Description: "No rush"},
	PriorityNormal: {Label: "Normal", Color: "blue", Description: "Standard handling"},
	PriorityHigh:   {Label: "High", Color: "orange", Description: "Expedite if possible"},
	PriorityUrgent: {Label: "Urgent", Color: "red", Description: "Handle immediately"},
}

var paymentMeta = map[PaymentStatus]StatusMeta{
	PaymentPending:  {Label: "Payment Pending", Color: "yellow", Description: "Awaiting payment"},
	PaymentPaid:     {Label: "Paid", Color: "green", Description: "Payment captured"},
	PaymentFailed:   {Label: "Payment Failed", Color: "red", Description: "Payment attempt failed"},
	PaymentRefunded: {Label: "Refunded", Color: "gray", Description: "Payment returned to customer"},
}

// StatusInfo returns display metadata for a status, defaulting for unknown keys
func StatusInfo(s Status) StatusMeta {
	if m, ok := statusMeta[s]; ok {
		return m
	}
	return defaultMeta
}

func PriorityInfo(p Priority) StatusMeta {
	if m, ok := priorityMeta[p]; ok {
		return m
	}
	return defaultMeta
}

func PaymentStatusInfo(p PaymentStatus) StatusMeta {
	if m, ok := paymentMeta[p]; ok {
		return m
	}
	return defaultMeta
}
