package errors

import "errors"

// Custom application errors
var (
	ErrReminderNotFound   = errors.New("التذكير غير موجود")                 // Reminder not found (or not owned by the user)
	ErrInvalidDate        = errors.New("صيغة التاريخ غير صحيحة")            // Unparsable day-month-year input
	ErrInvalidTime        = errors.New("صيغة الوقت غير صحيحة")              // Unparsable HH:MM input
	ErrDateInPast         = errors.New("لا يمكن ضبط تذكير في وقت مضى")      // Computed fire time is not in the future
	ErrDatabaseOperation  = errors.New("فشلت عملية قاعدة البيانات")         // Generic database error
	ErrVendorSend         = errors.New("فشل إرسال رسالة واتساب")            // Vendor gateway did not accept the message
	ErrDispatchInProgress = errors.New("عملية إرسال التذكيرات قيد التنفيذ") // Another dispatcher run holds the lock
	ErrInvalidPayload     = errors.New("بيانات الويب هوك غير مكتملة")       // Inbound webhook without sender or body
	ErrInternalServer     = errors.New("حدث خطأ داخلي في الخادم")           // Generic internal error
)
