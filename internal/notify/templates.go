package notify

// Kind selects the email template.
type Kind string

const (
	KindWelcome           Kind = "welcome"
	KindAdminDeploy       Kind = "adminDeploy"
	KindTeacherNotify     Kind = "teacherNotify"
	KindCertificateIssued Kind = "certificateIssued"
)

type template struct {
	file    string // Override file name inside the template directory
	subject string
	body    string // Inline fallback used when the file is unavailable
}

var templates = map[Kind]template{
	KindWelcome: {
		file:    "registration.html",
		subject: "Welcome to {{appName}}",
		body: `<p>Welcome, {{username}}!</p>
<p>Your account is ready. Take a quiz at <a href="{{quizUrl}}">{{quizUrl}}</a>.</p>`,
	},
	KindAdminDeploy: {
		file:    "admin_deploy.html",
		subject: "{{appName}} deployment complete",
		body:    `<p>Deployment finished at {{time}}. {{certificateCount}} certificates in the ledger.</p>`,
	},
	KindTeacherNotify: {
		file:    "teacher_notify.html",
		subject: "{{studentName}} earned a certificate",
		body: `<p><b>{{studentName}}</b> ({{studentEmail}}) earned a certificate for the {{quizTitle}} quiz with a score of {{score}}%.</p>
<p><a href="{{certificateUrl}}">View certificate</a></p>`,
	},
	KindCertificateIssued: {
		file:    "certificate.html",
		subject: "Your {{quizTitle}} Quiz Certificate",
		body: `<h2>Congratulations, {{username}}!</h2>
<p>You've successfully completed the <b>{{quizTitle}}</b> quiz with a score of <b>{{score}}%</b>.</p>
<p>Your certificate ID is <b>{{certificateId}}</b>.</p>
<p>You can verify it anytime at: <a href="{{certificateUrl}}">{{certificateUrl}}</a></p>`,
	},
}

// Kinds lists every known template kind.
func Kinds() []Kind {
	return []Kind{KindWelcome, KindAdminDeploy, KindTeacherNotify, KindCertificateIssued}
}
