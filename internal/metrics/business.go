package metrics

// IncrementUserRegistered increments the registration counter
func (m *Metrics) IncrementUserRegistered() {
	m.safeExecute("IncrementUserRegistered", func() {
		m.UserRegisteredTotal.Inc()
	})
}

// IncrementUserConfirmed increments the email confirmation counter
func (m *Metrics) IncrementUserConfirmed() {
	m.safeExecute("IncrementUserConfirmed", func() {
		m.UserConfirmedTotal.Inc()
	})
}

// IncrementPostCreated increments the post creation counter
func (m *Metrics) IncrementPostCreated() {
	m.safeExecute("IncrementPostCreated", func() {
		m.PostCreatedTotal.Inc()
	})
}

// IncrementCommentCreated increments the comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// IncrementImageUploaded increments the stored image counter
func (m *Metrics) IncrementImageUploaded() {
	m.safeExecute("IncrementImageUploaded", func() {
		m.ImageUploadedTotal.Inc()
	})
}

// IncrementMailSendFailure increments the failed confirmation mail counter
func (m *Metrics) IncrementMailSendFailure() {
	m.safeExecute("IncrementMailSendFailure", func() {
		m.MailSendFailuresTotal.Inc()
	})
}

// IncrementLoginFailure increments the rejected login counter
func (m *Metrics) IncrementLoginFailure() {
	m.safeExecute("IncrementLoginFailure", func() {
		m.LoginFailuresTotal.Inc()
	})
}

// AddAccountsPurged adds to the purged stale account counter
func (m *Metrics) AddAccountsPurged(count int64) {
	m.safeExecute("AddAccountsPurged", func() {
		m.AccountsPurgedTotal.Add(float64(count))
	})
}

// SetUsersTotal sets the registered users gauge
func (m *Metrics) SetUsersTotal(count int64) {
	m.safeExecute("SetUsersTotal", func() {
		m.UsersTotal.Set(float64(count))
	})
}

// SetPostsTotal sets the posts gauge
func (m *Metrics) SetPostsTotal(count int64) {
	m.safeExecute("SetPostsTotal", func() {
		m.PostsTotal.Set(float64(count))
	})
}

// SetCommentsTotal sets the comments gauge
func (m *Metrics) SetCommentsTotal(count int64) {
	m.safeExecute("SetCommentsTotal", func() {
		m.CommentsTotal.Set(float64(count))
	})
}
