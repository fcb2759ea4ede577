package model

// MovieResponse 热门电影接口的响应结构
type MovieResponse struct {
	Results []Movie `json:"results"`
}

// Movie 电影模型（TMDB 信息），只存在于内存目录中，不落库
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
}

// IsGenre 判断电影是否属于某个类型
func (m Movie) IsGenre(genreID int) bool {
	for _, id := range m.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

// GenreNames 返回电影所属类型的名称列表
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		if name, ok := GenreMap[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// GenreMap TMDB 类型 ID 到名称的映射
var GenreMap = map[int]string{
	28:    "Ação",
	12:    "Aventura",
	16:    "Animação",
	35:    "Comédia",
	80:    "Crime",
	99:    "Documentário",
	18:    "Drama",
	10751: "Família",
	14:    "Fantasia",
	36:    "História",
	27:    "Terror",
	10402: "Música",
	9648:  "Mistério",
	10749: "Romance",
	878:   "Ficção Científica",
	10770: "Filme de TV",
	53:    "Thriller",
	10752: "Guerra",
	37:    "Faroeste",
}
