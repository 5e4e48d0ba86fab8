package members

import "time"

// Record is a members row as stored. Interests holds the encoded column.
type Record struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;not null"`
	Email      string    `gorm:"column:email;not null;uniqueIndex"`
	Phone      string    `gorm:"column:phone;not null"`
	BloodGroup *string   `gorm:"column:blood_group"`
	Department *string   `gorm:"column:department"`
	Year       *string   `gorm:"column:year"`
	Motivation *string   `gorm:"column:motivation"`
	Experience *string   `gorm:"column:experience"`
	Interests  *string   `gorm:"column:interests;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (Record) TableName() string {
	return "members"
}

// Member is a stored application with interests decoded.
type Member struct {
	ID         int64
	Name       string
	Email      string
	Phone      string
	BloodGroup *string
	Department *string
	Year       *string
	Motivation *string
	Experience *string
	Interests  []string
	CreatedAt  time.Time
}

// Input carries every writable field. Update applies all of them.
type Input struct {
	Name       string
	Email      string
	Phone      string
	BloodGroup *string
	Department *string
	Year       *string
	Motivation *string
	Experience *string
	Interests  []string
}

type Stats struct {
	TotalMembers int64
}

// Member decodes the stored interests column.
func (r Record) Member() (Member, error) {
	interests, err := DecodeInterests(r.Interests)
	if err != nil {
		return Member{}, err
	}

	return Member{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		BloodGroup: r.BloodGroup,
		Department: r.Department,
		Year:       r.Year,
		Motivation: r.Motivation,
		Experience: r.Experience,
		Interests:  interests,
		CreatedAt:  r.CreatedAt,
	}, nil
}
