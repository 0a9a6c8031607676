package sqlinline

const QSelectReleaseByVersion = `--sql a8f538fc-ecb1-44ca-aa14-980ee1d85a6b
select version, releaseurl
from valchatreleases
where version = $1::double precision
limit 1;
`

const QSelectLatestRelease = `--sql 717c89c8-da0a-4e06-b66f-5c112dc2d6b1
select version, releaseurl
from valchatreleases
order by version desc
limit 1;
`

const QUpsertRelease = `--sql daff42d1-ae6f-45b6-9e64-d1b04b247143
insert into valchatreleases (version, releaseurl)
values ($1::double precision, $2::text)
on conflict (version) do update set releaseurl = excluded.releaseurl;
`
