package upstream

// Wire types mirror the school API records. Depending on the endpoint version
// the subject/teacher/book relations arrive either flattened (subjectName) or
// nested (Subject.name); both are kept and resolved through the *Label helpers.

// SubjectRef is the nested subject relation.
type SubjectRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// TeacherRef is the nested teacher relation.
type TeacherRef struct {
	Name string `json:"name"`
	NIP  string `json:"nip"`
}

// FeeRef is the nested fee relation on a bill.
type FeeRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ClassRef is the nested class relation on a profile.
type ClassRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// User is the account object the auth endpoint may return alongside the token.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Profile is the student master record.
type Profile struct {
	ID            int64     `json:"id"`
	NIS           string    `json:"nis"`
	Name          string    `json:"name"`
	ParentName    string    `json:"parentName"`
	ParentContact string    `json:"parentContact"`
	Address       string    `json:"address"`
	Photo         string    `json:"photo"`
	IsActive      bool      `json:"isActive"`
	IsCatering    bool      `json:"isCatering"`
	ClassName     string    `json:"ClassName"`
	Class         *ClassRef `json:"Class"`
}

// ClassLabel resolves the class name across both response shapes.
func (p Profile) ClassLabel() string {
	if p.ClassName != "" {
		return p.ClassName
	}
	if p.Class != nil {
		return p.Class.Name
	}
	return ""
}

// ScheduleEntry is one timetable slot. Times are zero-padded "HH:MM:SS".
type ScheduleEntry struct {
	ID          int64       `json:"id"`
	Day         string      `json:"day"`
	StartTime   string      `json:"startTime"`
	EndTime     string      `json:"endTime"`
	SubjectName string      `json:"subjectName"`
	SubjectCode string      `json:"subjectCode"`
	TeacherName string      `json:"teacherName"`
	Subject     *SubjectRef `json:"Subject"`
	Teacher     *TeacherRef `json:"Teacher"`
}

// SubjectLabel resolves the subject name across both response shapes.
func (s ScheduleEntry) SubjectLabel() string {
	if s.SubjectName != "" {
		return s.SubjectName
	}
	if s.Subject != nil {
		return s.Subject.Name
	}
	return ""
}

// TeacherLabel resolves the teacher name across both response shapes.
func (s ScheduleEntry) TeacherLabel() string {
	if s.TeacherName != "" {
		return s.TeacherName
	}
	if s.Teacher != nil {
		return s.Teacher.Name
	}
	return ""
}

// ScheduleRel is the nested schedule relation an attendance record may carry.
type ScheduleRel struct {
	Subject *SubjectRef `json:"Subject"`
}

// AttendanceRecord is one day's attendance entry.
type AttendanceRecord struct {
	ID          int64        `json:"id"`
	Date        string       `json:"date"`
	Status      string       `json:"status"`
	CreatedAt   string       `json:"createdAt"`
	SubjectName string       `json:"subjectName"`
	Schedule    *ScheduleRel `json:"Schedule"`
}

// Attendance status values as the server sends them.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
	StatusExcused = "Excused"
)

// SubjectLabel resolves the subject through the schedule relation when the
// flattened field is absent.
func (a AttendanceRecord) SubjectLabel() string {
	if a.SubjectName != "" {
		return a.SubjectName
	}
	if a.Schedule != nil && a.Schedule.Subject != nil {
		return a.Schedule.Subject.Name
	}
	return ""
}

// GradeRecord is one scored assessment, score expected in 0-100.
type GradeRecord struct {
	ID          int64       `json:"id"`
	Type        string      `json:"type"`
	Score       float64     `json:"score"`
	CreatedAt   string      `json:"createdAt"`
	SubjectName string      `json:"subjectName"`
	Subject     *SubjectRef `json:"Subject"`
}

// SubjectLabel resolves the subject name across both response shapes.
func (g GradeRecord) SubjectLabel() string {
	if g.SubjectName != "" {
		return g.SubjectName
	}
	if g.Subject != nil {
		return g.Subject.Name
	}
	return ""
}

// Bill is one invoice. Amount stays a decimal string on the wire.
type Bill struct {
	ID         int64   `json:"id"`
	BillNumber string  `json:"billNumber"`
	Amount     string  `json:"amount"`
	Status     string  `json:"status"`
	DueDate    string  `json:"dueDate"`
	PaidDate   *string `json:"paidDate"`
	Month      *int    `json:"month"`
	Year       int     `json:"year"`
	CreatedAt  string  `json:"createdAt"`
	FeeName    string  `json:"feeName"`
	Fee        *FeeRef `json:"Fee"`
}

// Bill status values as the server sends them.
const (
	BillPending = "Pending"
	BillPaid    = "Paid"
	BillOverdue = "Overdue"
)

// FeeLabel resolves the fee name across both response shapes.
func (b Bill) FeeLabel() string {
	if b.FeeName != "" {
		return b.FeeName
	}
	if b.Fee != nil {
		return b.Fee.Name
	}
	return ""
}

// Book is a library catalog entry.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Stock  int    `json:"stock"`
}

// Loan is one borrowing record; the book relation arrives under either name.
type Loan struct {
	ID          int64   `json:"id"`
	LoanDate    string  `json:"loanDate"`
	DueDate     string  `json:"dueDate"`
	ReturnDate  *string `json:"returnDate"`
	Status      string  `json:"status"`
	LibraryBook *Book   `json:"LibraryBook"`
	Book        *Book   `json:"Book"`
}

// Loan status values as the server sends them.
const (
	LoanBorrowed = "Borrowed"
	LoanReturned = "Returned"
	LoanOverdue  = "Overdue"
)

// BookRef resolves the book relation across both names, nil when absent.
func (l Loan) BookRef() *Book {
	if l.LibraryBook != nil {
		return l.LibraryBook
	}
	return l.Book
}
