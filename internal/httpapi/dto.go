package httpapi

// createUserRequest is the registration body.
type createUserRequest struct {
	Username    string `json:"username" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Role        string `json:"role" validate:"omitempty,oneof=admin user"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
}

// tokenRequest accepts the OAuth2 password form or the same fields as JSON.
type tokenRequest struct {
	Username  string `json:"username" form:"username" validate:"required"`
	Password  string `json:"password" form:"password" validate:"required"`
	GrantType string `json:"grant_type" form:"grant_type" validate:"omitempty,eq=password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type idParam struct {
	ID int64 `param:"id" validate:"gt=0"`
}

// todoRequest is the create/update body. ID is only bound from the path on update.
type todoRequest struct {
	ID          int64  `param:"id" json:"-"`
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=3,max=100"`
	Priority    int    `json:"priority" validate:"min=1,max=5"`
	Complete    bool   `json:"complete"`
}

type passwordChangeRequest struct {
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type phoneNumberParam struct {
	PhoneNumber string `param:"phone" validate:"required,max=32"`
}

type bookRequest struct {
	ID            int64  `param:"id" json:"-"`
	Title         string `json:"title" validate:"required,min=3"`
	Author        string `json:"author" validate:"required,min=1"`
	Description   string `json:"description" validate:"required,min=1,max=100"`
	Rating        int    `json:"rating" validate:"min=0,max=5"`
	PublishedDate int    `json:"published_date" validate:"min=2000,max=2024"`
}

// bookFilter narrows GET /books. Rating is checked by ratingQuery only when given.
type bookFilter struct {
	Author string `query:"author" validate:"max=100"`
	Rating int    `query:"rating"`
}

type titleParam struct {
	Title string `param:"title" validate:"required,max=200"`
}

type ratingQuery struct {
	Rating int `query:"rating" validate:"min=1,max=5"`
}

type publishedQuery struct {
	Year int `query:"year" validate:"min=2000,max=2024"`
}

type pageQuery struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}
