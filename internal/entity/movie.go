package entity

type Movie struct {
	ID             uint     `gorm:"column:movie_id;primaryKey" json:"movie_id"`
	Title          string   `gorm:"column:movie_title;size:150;not null;index" json:"movie_title"`
	Duration       int      `gorm:"column:movie_duration;not null" json:"movie_duration"`
	ProductionYear int      `gorm:"not null" json:"production_year"`
	Poster         *string  `gorm:"column:movie_poster;size:500" json:"movie_poster"`
	DescriptionEN  *string  `gorm:"column:movie_description_en;type:text" json:"movie_description_en"`
	DescriptionID  *string  `gorm:"column:movie_description_id;type:text" json:"movie_description_id"`
	TrailerURL     *string  `gorm:"size:500" json:"trailer_url"`
	AverageRating  *float64 `gorm:"type:numeric(3,1)" json:"average_rating"`
	Genres         []Genre  `gorm:"many2many:movie_genres;joinForeignKey:MovieID;joinReferences:GenreID" json:"genres,omitempty"`
	Actors         []Actor  `gorm:"many2many:movie_actors;joinForeignKey:MovieID;joinReferences:ActorID" json:"actors,omitempty"`
}

func (Movie) TableName() string { return "movies" }

const (
	RatingClassNone    = "Not Rated"
	RatingClassTop     = "Top Rated"
	RatingClassPopular = "Popular"
	RatingClassRegular = "Regular"
)

// RatingClass buckets an average rating for display.
func RatingClass(avg *float64) string {
	switch {
	case avg == nil:
		return RatingClassNone
	case *avg >= 8.5:
		return RatingClassTop
	case *avg >= 7.0:
		return RatingClassPopular
	default:
		return RatingClassRegular
	}
}

type Genre struct {
	ID     uint    `gorm:"column:genre_id;primaryKey" json:"genre_id"`
	Name   string  `gorm:"column:genre_name;size:50;not null;uniqueIndex" json:"genre_name"`
	Movies []Movie `gorm:"many2many:movie_genres;joinForeignKey:GenreID;joinReferences:MovieID" json:"movies,omitempty"`
}

func (Genre) TableName() string { return "genres" }

type Actor struct {
	ID     uint    `gorm:"column:actor_id;primaryKey" json:"actor_id"`
	Name   string  `gorm:"column:actor_name;size:100;not null;index" json:"actor_name"`
	Movies []Movie `gorm:"many2many:movie_actors;joinForeignKey:ActorID;joinReferences:MovieID" json:"movies,omitempty"`
}

func (Actor) TableName() string { return "actors" }

// MovieGenre and MovieActor are the join rows; the composite key keeps each
// pair unique.
type MovieGenre struct {
	MovieID uint `gorm:"primaryKey;autoIncrement:false"`
	GenreID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (MovieGenre) TableName() string { return "movie_genres" }

type MovieActor struct {
	MovieID uint `gorm:"primaryKey;autoIncrement:false"`
	ActorID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (MovieActor) TableName() string { return "movie_actors" }
