package config

type WorkerKeyStruct struct {
	ArchiveReportsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ArchiveReportsQueue: "archive_reports_queue",
}
